package scorm

import _ "embed"

//go:embed scripts/api_1p2.js
var script12 string

//go:embed scripts/api_2004.js
var script2004 string

// Runtime describes one edition of the SCORM runtime contract the generated
// page speaks to its host LMS. Script is a fixed payload and never carries
// user data; it is the only field the page renderer emits. The name fields
// record which global object, methods and data-model elements that script
// uses, so callers can tell the editions apart without parsing JavaScript.
type Runtime struct {
	Version    Version
	GlobalName string

	Initialize string
	SetValue   string
	Commit     string
	Terminate  string

	CompletionElement  string
	SuccessElement     string
	SessionTimeElement string

	Script string
}

var (
	// RuntimeV1p2 is the SCORM 1.2 contract (global API).
	RuntimeV1p2 = Runtime{
		Version:            Version12,
		GlobalName:         "API",
		Initialize:         "LMSInitialize",
		SetValue:           "LMSSetValue",
		Commit:             "LMSCommit",
		Terminate:          "LMSFinish",
		CompletionElement:  "cmi.core.lesson_status",
		SessionTimeElement: "cmi.core.session_time",
		Script:             script12,
	}

	// RuntimeV2004 is the SCORM 2004 contract (global API_1484_11).
	RuntimeV2004 = Runtime{
		Version:            Version2004,
		GlobalName:         "API_1484_11",
		Initialize:         "Initialize",
		SetValue:           "SetValue",
		Commit:             "Commit",
		Terminate:          "Terminate",
		CompletionElement:  "cmi.completion_status",
		SuccessElement:     "cmi.success_status",
		SessionTimeElement: "cmi.session_time",
		Script:             script2004,
	}
)

// RuntimeFor returns the runtime contract for v.
func RuntimeFor(v Version) Runtime {
	if v == Version2004 {
		return RuntimeV2004
	}
	return RuntimeV1p2
}

// TracksSuccess reports whether the edition has a separate success status.
func (r Runtime) TracksSuccess() bool {
	return r.SuccessElement != ""
}
