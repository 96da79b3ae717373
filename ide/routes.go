package ide

import (
	"fmt"
	"regexp"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/brettbedarf/stshell"
)

// Shared IDE paths that do not depend on the application kind
const (
	LoginPath     = "/j_spring_security_check"
	LoginPagePath = "/login"
	SessionCookie = "JSESSIONID"
)

// Routes is the URL table and page scraping rules for one application kind
type Routes struct {
	List       string // POST, HTML page listing every app
	Resources  string // POST ?id=, JSON resource tree
	Download   string // POST ?id=&resourceId=&resourceType=, raw content
	Create     string // POST form, 302 to the new editor page
	Upload     string // POST multipart
	Editor     string // GET + id, HTML editor page
	DeleteItem string // POST form id, resourceId
	Destroy    string // see DestroyByForm

	// DestroyByForm posts id and _action_delete to Destroy instead of
	// issuing GET Destroy+id
	DestroyByForm bool

	// EditorPattern captures url, websocket, client, id and, when
	// VersionFromID is false, versionId and state from the Editor page
	EditorPattern *regexp.Regexp
	// VersionFromID reuses the id as versionId for kinds whose editor page
	// doesn't carry one
	VersionFromID bool
}

// SmartAppRoutes is the route table for SmartApps (SA)
func SmartAppRoutes() *Routes {
	return &Routes{
		List:        "/ide/apps",
		Resources:   "/ide/app/getResourceList",
		Download:    "/ide/app/getCodeForResource",
		Create:      "/ide/app/saveFromCode",
		Upload:      "/ide/app/uploadResources",
		Editor:      "/ide/app/editor/",
		DeleteItem:  "/ide/app/deleteResource",
		Destroy:     "/ide/app/delete/",
		EditorPattern: regexp.MustCompile(`(?is)ST\.AppIDE\.init\(\{.+?url: '([^']+)',.+?websocket: '([^']+)',` +
			`.+?client: '([^']+)',.+?id: '([^']+)',.+?versionId: '([^']+)',.+?state: '([^']+)'`),
	}
}

// DeviceTypeRoutes is the route table for Device Type Handlers (DTH)
func DeviceTypeRoutes() *Routes {
	return &Routes{
		List:          "/ide/devices",
		Resources:     "/ide/device/getResourceList",
		Download:      "/ide/device/getCodeForResource",
		Create:        "/ide/device/saveFromCode",
		Upload:        "/ide/device/uploadResources",
		Editor:        "/ide/device/editor/",
		DeleteItem:    "/ide/device/deleteResource",
		Destroy:       "/ide/device/update",
		DestroyByForm: true,
		EditorPattern: regexp.MustCompile(`(?is)ST\.DeviceIDE\.init\(\{.+?url: '([^']+)',.+?websocket: '([^']+)',` +
			`.+?client: '([^']+)',.+?id: '([^']+)'`),
		VersionFromID: true,
	}
}

// Registry maps application kinds to their [Routes]
type Registry struct {
	routes *xsync.Map[stshell.Kind, *Routes]
}

func NewRegistry() *Registry {
	return &Registry{routes: xsync.NewMap[stshell.Kind, *Routes]()}
}

// Register ties routes to a kind. The first registration for a kind wins.
func (r *Registry) Register(kind stshell.Kind, routes *Routes) {
	r.routes.LoadOrStore(kind, routes)
}

// Routes returns the table registered for kind
func (r *Registry) Routes(kind stshell.Kind) (*Routes, error) {
	routes, ok := r.routes.Load(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return routes, nil
}

// RegisterBuiltins registers all built-in kinds by default
// or only the specific ones if kinds are provided
func (r *Registry) RegisterBuiltins(kinds ...stshell.Kind) {
	if len(kinds) == 0 {
		kinds = stshell.Kinds
	}

	for _, kind := range kinds {
		switch kind {
		case stshell.KindSmartApp:
			r.Register(kind, SmartAppRoutes())
		case stshell.KindDeviceType:
			r.Register(kind, DeviceTypeRoutes())
		}
	}
}
