package metadata

import "strings"

// PageURL returns the canonical URL of page under siteURL. An empty page is
// the site root.
func PageURL(siteURL, page string) string {
	base := strings.TrimRight(siteURL, "/")
	page = strings.Trim(page, "/")
	if page == "" {
		return base
	}
	return base + "/" + page
}

// Template returns a fully populated PageData for a new page, so a scaffolded
// file passes validation before it is edited.
func Template(title, author, siteURL, siteName string) PageData {
	yes := true
	desc := "Describe " + title + " in one or two sentences."
	image := strings.TrimRight(siteURL, "/") + "/og-image.png"
	return PageData{
		Title:       title,
		Description: desc,
		Keywords:    []string{strings.ToLower(title)},
		Author:      author,
		URL:         siteURL,
		SiteName:    siteName,
		OpenGraph: &OpenGraph{
			Type:        "website",
			Locale:      "en_GB",
			Title:       title,
			Description: desc,
			Images: []Image{
				{URL: image, Width: 1200, Height: 630, Alt: title},
			},
		},
		Twitter: &Twitter{
			Card:        "summary_large_image",
			Title:       title,
			Description: desc,
			Images:      []string{image},
		},
		Robots: &Robots{Index: &yes, Follow: &yes},
		Icons:  &Icons{Icon: "/favicon.ico", Apple: "/apple-touch-icon.png"},
	}
}
