// Package stshell contains core domain types and interfaces for working with
// applications hosted in the SmartThings web IDE
package stshell

import (
	"fmt"
	"strings"
)

// Kind identifies which family of IDE application a request targets
type Kind string

const (
	KindSmartApp   Kind = "smartapp"
	KindDeviceType Kind = "devicetype"
)

// Kinds lists every built-in [Kind] in a stable order
var Kinds = []Kind{KindSmartApp, KindDeviceType}

// ParseKind accepts the long names plus the IDE's SA/DTH abbreviations
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "smartapp", "smartapps", "sa":
		return KindSmartApp, nil
	case "devicetype", "devicetypes", "device", "dth":
		return KindDeviceType, nil
	}
	return "", fmt.Errorf("unknown application kind %q (want smartapp|sa or devicetype|dth)", s)
}

// Dir is the directory name used for this kind when mirroring an account
func (k Kind) Dir() string {
	return string(k) + "s"
}

// App is one application listed in the IDE
type App struct {
	Kind      Kind   `json:"kind"`
	ID        string `json:"id"`
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// EditorIDs are the identifiers embedded in an application's editor page.
// Uploads are keyed by VersionID, not the application ID.
type EditorIDs struct {
	URL       string `json:"url"`
	Websocket string `json:"websocket"`
	Client    string `json:"client"`
	ID        string `json:"id"`
	VersionID string `json:"versionId"`
	State     string `json:"state,omitempty"`
}

// UploadType valid types are the resource categories accepted by the upload form
type UploadType string

const (
	UploadOther      UploadType = "OTHER"
	UploadImage      UploadType = "IMAGE"
	UploadCSS        UploadType = "CSS"
	UploadI18N       UploadType = "I18N"
	UploadJavascript UploadType = "JAVASCRIPT"
	UploadView       UploadType = "VIEW"
)

// ParseUploadType is case-insensitive and defaults to [UploadOther] for ""
func ParseUploadType(s string) (UploadType, error) {
	if s == "" {
		return UploadOther, nil
	}
	t := UploadType(strings.ToUpper(s))
	switch t {
	case UploadOther, UploadImage, UploadCSS, UploadI18N, UploadJavascript, UploadView:
		return t, nil
	}
	return "", fmt.Errorf("unknown upload type %q", s)
}
