package generator

import (
	"time"

	"git.home.luguber.info/inful/exdoc/internal/diag"
	"git.home.luguber.info/inful/exdoc/internal/docmodel"
)

// Report summarizes one generation run. It is stored alongside the run
// record and printed by the generate command.
type Report struct {
	RunID       string    `json:"run_id"`
	Project     string    `json:"project"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Sources     int       `json:"sources"`
	DocComments int       `json:"doc_comments"`
	Entities    int       `json:"entities"`
	Examples    int       `json:"examples"`
	Demos       int       `json:"demos"`
	Manifests   []string  `json:"manifests,omitempty"`
	Warnings    int       `json:"warnings"`
	InputHash   string    `json:"input_hash,omitempty"`
	Outcome     string    `json:"outcome"`
}

// Discovery is the result of a scan-only run: the entities the annotations
// would create and the diagnostics interpretation raised.
type Discovery struct {
	Sources     int
	DocComments int
	Entities    []EntitySummary
	Diagnostics []diag.Diagnostic
}

// EntitySummary identifies one documented entity and where its comment
// lives.
type EntitySummary struct {
	Kind docmodel.Kind
	Name string
	Loc  docmodel.Location
}
