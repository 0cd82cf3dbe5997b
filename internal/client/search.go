package client

import "strings"

const recentLimit = 5

// Filter keeps links whose title, url or any tag contains term, ignoring case.
// A blank term keeps everything.
func Filter(links []Link, term string) []Link {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return links
	}

	matched := make([]Link, 0, len(links))
	for _, link := range links {
		if matches(link, term) {
			matched = append(matched, link)
		}
	}
	return matched
}

func matches(link Link, term string) bool {
	if strings.Contains(strings.ToLower(link.Title), term) ||
		strings.Contains(strings.ToLower(link.URL), term) {
		return true
	}
	for _, tag := range link.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// Featured splits a newest-first list into the highlighted link and the few
// recent ones shown under it on the home view.
func Featured(links []Link) (featured *Link, recent []Link) {
	if len(links) == 0 {
		return nil, nil
	}
	featured = &links[0]
	recent = links[1:]
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	return featured, recent
}
