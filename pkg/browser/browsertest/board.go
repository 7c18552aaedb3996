package browsertest

import (
	"github.com/entrhq/boardcheck/pkg/selector"
	"github.com/entrhq/boardcheck/pkg/types"
)

// Board renders list views and sidebars using the selectors of a catalog.
type Board struct {
	Catalog selector.Catalog
}

func (b Board) sel(name, fallback string) string {
	return b.Catalog.TemplateOr(selector.AreaAsana, name, fallback)
}

// RenderList makes the list tab clickable and renders groups in order. A
// group with an empty name has no header element; a task with an empty name
// has no name element.
func (b Board) RenderList(p *Page, groups []types.ScrapedGroup) {
	p.Set(b.sel(selector.ListTab, "listTab"), Text("List"))

	var containers []*Node
	for _, g := range groups {
		container := &Node{}
		if g.Group != "" {
			container.Add(b.sel(selector.GroupHeader, "groupHeader"), Text(g.Group))
		}
		for _, t := range g.Tasks {
			row := &Node{}
			if t.Task != "" {
				row.Add(b.sel(selector.TaskName, "taskName"), Text(t.Task))
			}
			for _, tag := range t.Tags {
				row.Add(b.sel(selector.TaskTags, "taskTags"), Text(tag))
			}
			container.Add(b.sel(selector.TaskRow, "taskRow"), row)
		}
		containers = append(containers, container)
	}

	groupSel := b.sel(selector.GroupContainer, "groupContainer")
	if len(containers) == 0 {
		p.Remove(groupSel)
		return
	}
	p.Set(groupSel, containers...)
}

// RenderSidebar renders the sidebar with one label per project and makes
// each project link resolvable.
func (b Board) RenderSidebar(p *Page, projects ...string) {
	p.Set(b.sel(selector.Sidebar, selector.DefaultSidebar), Text(""))

	labelSel := b.sel(selector.SidebarLabel, selector.DefaultSidebarLabel)
	linkTmpl := b.sel(selector.ProjectLink, selector.DefaultProjectLink)

	var labels []*Node
	for _, name := range projects {
		label := Text(name)
		labels = append(labels, label)
		link, _ := selector.Resolve(linkTmpl, map[string]string{"project": name})
		p.Set(link, label)
	}
	if len(labels) > 0 {
		p.Set(labelSel, labels...)
	}
}

// ClearSidebar removes the sidebar container, its labels and the links for
// projects.
func (b Board) ClearSidebar(p *Page, projects ...string) {
	p.Remove(b.sel(selector.Sidebar, selector.DefaultSidebar))
	p.Remove(b.sel(selector.SidebarLabel, selector.DefaultSidebarLabel))
	linkTmpl := b.sel(selector.ProjectLink, selector.DefaultProjectLink)
	for _, name := range projects {
		link, _ := selector.Resolve(linkTmpl, map[string]string{"project": name})
		p.Remove(link)
	}
}
