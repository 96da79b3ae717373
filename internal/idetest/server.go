// Package idetest provides an in-process fake of the SmartThings web IDE
// for tests
package idetest

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/brettbedarf/stshell"
)

const (
	Username = "user@example.com"
	Password = "secret"
)

// Upload is one recorded multipart upload
type Upload struct {
	Kind      stshell.Kind
	VersionID string
	Filename  string
	FileType  string
	FilePath  string
	Content   []byte
}

// App is an application hosted by the fake
type App struct {
	stshell.App
	VersionID string
	Tree      string            // resource list JSON
	Items     map[string][]byte // resource id -> content
}

// Server is a fake IDE. Exported fields may be changed before requests are
// made; use the methods once the server is handling traffic.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	sessions map[string]bool
	apps     map[string]*App
	failures map[string]int // resource id -> status to answer with
	uploads  []Upload
	deleted  []string // "owner/resource"
	paths    []string // "METHOD path" of every /ide request
}

// NewServer starts a fake IDE; call Close when done
func NewServer() *Server {
	s := &Server{
		sessions: make(map[string]bool),
		apps:     make(map[string]*App),
		failures: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /j_spring_security_check", s.handleLogin)
	mux.HandleFunc("GET /login/", func(w http.ResponseWriter, r *http.Request) {
		// anonymous session, never authenticated
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "anon-" + uuid.NewString(), Path: "/"})
		io.WriteString(w, "<html><form action=\"/j_spring_security_check\"></form></html>") // nolint:errcheck
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>home</html>") // nolint:errcheck
	})
	for _, kind := range stshell.Kinds {
		s.registerKind(mux, kind)
	}
	s.Server = httptest.NewServer(mux)
	return s
}

// AddApp hosts app; a zero ID is replaced with a random one
func (s *Server) AddApp(app *App) *App {
	s.mu.Lock()
	defer s.mu.Unlock()
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.VersionID == "" {
		app.VersionID = uuid.NewString()
	}
	if app.Items == nil {
		app.Items = make(map[string][]byte)
	}
	s.apps[app.ID] = app
	return app
}

// App returns a hosted app by id
func (s *Server) App(id string) (*App, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	return app, ok
}

// FailItem makes downloads of resourceID answer with status
func (s *Server) FailItem(resourceID string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[resourceID] = status
}

// ExpireSessions forgets every session so the next request is sent to the
// login page
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.sessions)
}

func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

func (s *Server) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

// Paths lists "METHOD path" of every authenticated IDE request in order
func (s *Server) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("j_username") != Username || r.FormValue("j_password") != Password {
		http.Redirect(w, r, "/login/authfail", http.StatusFound)
		return
	}
	sid := uuid.NewString()
	s.mu.Lock()
	s.sessions[sid] = true
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: sid, Path: "/"})
	http.Redirect(w, r, "/", http.StatusFound)
}

// auth sends requests without a live session to the login page
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("JSESSIONID")
		s.mu.Lock()
		ok := err == nil && s.sessions[cookie.Value]
		if ok {
			s.paths = append(s.paths, r.Method+" "+r.URL.Path)
		}
		s.mu.Unlock()
		if !ok {
			http.Redirect(w, r, "/login/auth", http.StatusFound)
			return
		}
		next(w, r)
	}
}

func (s *Server) registerKind(mux *http.ServeMux, kind stshell.Kind) {
	seg := "app"
	if kind == stshell.KindDeviceType {
		seg = "device"
	}
	base := "/ide/" + seg

	mux.HandleFunc("POST /ide/"+seg+"s", s.auth(func(w http.ResponseWriter, r *http.Request) {
		s.writeList(w, kind, seg)
	}))
	mux.HandleFunc("POST "+base+"/getResourceList", s.auth(func(w http.ResponseWriter, r *http.Request) {
		app, ok := s.App(r.URL.Query().Get("id"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, app.Tree) // nolint:errcheck
	}))
	mux.HandleFunc("POST "+base+"/getCodeForResource", s.auth(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		rid := q.Get("resourceId")
		s.mu.Lock()
		status, fail := s.failures[rid]
		app := s.apps[q.Get("id")]
		s.mu.Unlock()
		if fail {
			w.WriteHeader(status)
			return
		}
		if app == nil || q.Get("resourceType") == "" {
			http.NotFound(w, r)
			return
		}
		data, ok := app.Items[rid]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data) // nolint:errcheck
	}))
	mux.HandleFunc("POST "+base+"/saveFromCode", s.auth(func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("fromCodeType") != "code" || r.FormValue("create") != "Create" || r.FormValue("content") == "" {
			io.WriteString(w, "<html>compile error</html>") // nolint:errcheck
			return
		}
		app := s.AddApp(&App{App: stshell.App{Kind: kind, Namespace: "created", Name: "new"}, Tree: "[]"})
		w.Header().Set("Location", s.URL+base+"/editor/"+app.ID)
		w.WriteHeader(http.StatusFound)
	}))
	mux.HandleFunc("POST "+base+"/uploadResources", s.auth(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("fileData")
		if err != nil || r.FormValue("uploadResource") != "Upload" {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		name := header.Filename
		s.mu.Lock()
		s.uploads = append(s.uploads, Upload{
			Kind:      kind,
			VersionID: r.FormValue("id"),
			Filename:  name,
			FileType:  r.FormValue("file-type|" + name),
			FilePath:  r.FormValue("file-path|" + name),
			Content:   content,
		})
		s.mu.Unlock()
	}))
	mux.HandleFunc("GET "+base+"/editor/{id}", s.auth(func(w http.ResponseWriter, r *http.Request) {
		app, ok := s.App(r.PathValue("id"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		s.writeEditor(w, kind, seg, app)
	}))
	mux.HandleFunc("POST "+base+"/deleteResource", s.auth(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		app, ok := s.apps[r.FormValue("id")]
		rid := r.FormValue("resourceId")
		if !ok || app.Items[rid] == nil {
			http.NotFound(w, r)
			return
		}
		delete(app.Items, rid)
		s.deleted = append(s.deleted, app.ID+"/"+rid)
	}))

	destroy := func(w http.ResponseWriter, r *http.Request, id string) {
		s.mu.Lock()
		_, ok := s.apps[id]
		delete(s.apps, id)
		s.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/ide/"+seg+"s", http.StatusFound)
	}
	if kind == stshell.KindDeviceType {
		mux.HandleFunc("POST "+base+"/update", s.auth(func(w http.ResponseWriter, r *http.Request) {
			if r.FormValue("_action_delete") != "Delete" {
				http.Error(w, "unsupported action", http.StatusBadRequest)
				return
			}
			destroy(w, r, r.FormValue("id"))
		}))
	} else {
		mux.HandleFunc("GET "+base+"/delete/{id}", s.auth(func(w http.ResponseWriter, r *http.Request) {
			destroy(w, r, r.PathValue("id"))
		}))
	}
}

func (s *Server) writeList(w io.Writer, kind stshell.Kind, seg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	b.WriteString("<html><body><table>\n")
	for _, app := range s.apps {
		if app.Kind != kind {
			continue
		}
		img := ""
		if kind == stshell.KindSmartApp {
			img = `<img src="/images/icon.png" alt="">`
		}
		fmt.Fprintf(&b, "<tr><td><a href=\"/ide/%s/editor/%s\" class=\"app-link\">%s\n\t%s : %s\n</a></td></tr>\n",
			seg, app.ID, img, html.EscapeString(app.Namespace), html.EscapeString(app.Name))
	}
	b.WriteString("</table></body></html>")
	io.WriteString(w, b.String()) // nolint:errcheck
}

func (s *Server) writeEditor(w io.Writer, kind stshell.Kind, seg string, app *App) {
	if kind == stshell.KindDeviceType {
		fmt.Fprintf(w, `<script>
	var codeModified = false;
	$(function() {
		ST.DeviceIDE.init({
			url: '/ide/device/',
			websocket: 'wss://ic.example.com:8443/',
			client: 'client-%[1]s',
			id: '%[1]s'
		});
	});
</script>`, app.ID)
		return
	}
	fmt.Fprintf(w, `<script>
	ST.AppIDE.init({
		url: '/ide/%[1]s/',
		websocket: 'wss://ic.example.com:8443/',
		client: 'client-%[2]s',
		id: '%[2]s',
		versionId: '%[3]s',
		state: 'NOT_APPROVED'
	});
</script>`, seg, app.ID, app.VersionID)
}
