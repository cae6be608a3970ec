package routes

// NavLink is a materialised navigation entry. URL is never empty: link
// construction walks a fallback chain that bottoms out at "/".
type NavLink struct {
	Label    string
	URL      string
	Icon     string
	Children []NavLink
}

type navItem struct {
	label         string
	icon          string
	url           string
	routeName     string
	fallbackURL   string
	fallbackRoute string
	children      []navItem
}

var navigationSections = []navItem{
	{
		label:     "Dashboard",
		icon:      "fa-solid fa-gauge-high",
		routeName: "bones:dashboard",
		children: []navItem{
			{label: "Overview", routeName: "bones:dashboard"},
			{label: "Recent Activity", routeName: "bones:history:dashboard"},
		},
	},
	{
		label:     "Transects",
		icon:      "fa-solid fa-route",
		routeName: "bones:transects:list",
		children: []navItem{
			{label: "Completed transects", routeName: "bones:transects:list"},
			{label: "Transect history", routeName: "bones:history:transects"},
		},
	},
	{
		label:     "Occurrences",
		icon:      "fa-solid fa-frog",
		routeName: "bones:occurrences:list",
		children: []navItem{
			{label: "Completed occurrences", routeName: "bones:occurrences:list"},
			{label: "Occurrence history", routeName: "bones:history:occurrences"},
		},
	},
	{
		label:     "Workflows",
		icon:      "fa-solid fa-diagram-project",
		routeName: "bones:workflows:list",
		children: []navItem{
			{label: "Completed workflows", routeName: "bones:workflows:list"},
			{label: "Workflow history", routeName: "bones:history:workflows"},
		},
	},
	{
		label:     "Templates",
		icon:      "fa-solid fa-layer-group",
		routeName: "bones:templates:list",
		children: []navItem{
			{label: "Template transects", routeName: "bones:templates:list"},
			{label: "Questions", routeName: "bones:templates:questions"},
		},
	},
	{
		label:     "Reference Data",
		icon:      "fa-solid fa-database",
		routeName: "bones:reference:list",
		children: []navItem{
			{label: "Data types", routeName: "bones:reference:data_types"},
			{label: "Data type options", routeName: "bones:reference:data_type_options"},
			{label: "Project configuration", routeName: "bones:reference:project_config"},
		},
	},
	{
		label:     "Data Logs",
		icon:      "fa-solid fa-file-arrow-down",
		routeName: "bones:logs:list",
	},
	{
		label:     "History",
		icon:      "fa-solid fa-clock-rotate-left",
		routeName: "bones:history:index",
		children: []navItem{
			{label: "Transects", routeName: "bones:history:transects"},
			{label: "Occurrences", routeName: "bones:history:occurrences"},
			{label: "Workflows", routeName: "bones:history:workflows"},
			{label: "Questions", routeName: "bones:history:questions"},
		},
	},
}

// BuildNavigation materialises the static section tree into links.
func BuildNavigation() []NavLink {
	links := make([]NavLink, 0, len(navigationSections))
	for _, item := range navigationSections {
		links = append(links, materialiseLink(item))
	}
	return links
}

// materialiseLink resolves children first so a parent whose own routes all
// fail can borrow the first child's URL.
func materialiseLink(item navItem) NavLink {
	children := make([]NavLink, 0, len(item.children))
	for _, child := range item.children {
		children = append(children, materialiseLink(child))
	}

	url := item.url
	if url == "" && item.routeName != "" {
		url = Resolve(item.routeName, nil)
	}
	if url == "" {
		url = item.fallbackURL
	}
	if url == "" && item.fallbackRoute != "" {
		url = Resolve(item.fallbackRoute, nil)
	}
	if url == "" && len(children) > 0 {
		url = children[0].URL
	}
	if url == "" {
		url = "/"
	}

	return NavLink{Label: item.label, URL: url, Icon: item.icon, Children: children}
}
