package ide

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/brettbedarf/stshell"
)

// ParseID validates an application id and returns it in canonical form
func ParseID(s string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidID, s, err)
	}
	return id.String(), nil
}

// parseAppList extracts every "namespace : name" editor link from a list
// page, sorted by id with duplicates dropped
func parseAppList(kind stshell.Kind, routes *Routes, page string) ([]stshell.App, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s list: %w", kind, err)
	}

	seen := make(map[string]struct{})
	var apps []stshell.App
	doc.Find(fmt.Sprintf("a[href^=%q]", routes.Editor)).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		id := strings.TrimPrefix(href, routes.Editor)
		namespace, name, ok := strings.Cut(a.Text(), ":")
		if id == "" || !ok {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		apps = append(apps, stshell.App{
			Kind:      kind,
			ID:        id,
			Namespace: strings.TrimSpace(namespace),
			Name:      strings.TrimSpace(name),
		})
	})
	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
	return apps, nil
}

// parseEditorIDs reads the IDE init call embedded in an editor page
func parseEditorIDs(routes *Routes, page string) (*stshell.EditorIDs, error) {
	m := routes.EditorPattern.FindStringSubmatch(page)
	if m == nil {
		return nil, fmt.Errorf("%w: editor init block", ErrNoMatch)
	}
	ids := &stshell.EditorIDs{
		URL:       m[1],
		Websocket: m[2],
		Client:    m[3],
		ID:        m[4],
	}
	if routes.VersionFromID {
		ids.VersionID = ids.ID
	} else {
		ids.VersionID = m[5]
		ids.State = m[6]
	}
	return ids, nil
}

// parseCreatedID pulls the new application id out of the redirect target
// returned by a create call
func parseCreatedID(routes *Routes, location string) (string, error) {
	p := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(routes.Editor) + `([a-f0-9\-]+)`)
	m := p.FindStringSubmatch(location)
	if m == nil {
		return "", fmt.Errorf("%w: editor link in %q", ErrNoMatch, location)
	}
	return ParseID(m[1])
}
