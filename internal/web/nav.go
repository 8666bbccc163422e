package web

import "strings"

type NavItem struct {
	Href  string
	Label string
}

var NavItems = []NavItem{
	{Href: "/", Label: "Home"},
	{Href: "/services", Label: "Services"},
	{Href: "/appointments", Label: "Appointments"},
	{Href: "/profile", Label: "Profile"},
}

// IsActive highlights "/" only on an exact match and every other item for
// its whole subtree.
func IsActive(href, path string) bool {
	if href == "/" {
		return path == "/"
	}
	return strings.HasPrefix(path, href)
}
