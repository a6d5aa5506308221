package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/twigcs/pkg/analysis"
	"github.com/yaklabco/twigcs/pkg/report"
)

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

const (
	toolName           = "twigcs"
	toolInformationURI = "https://github.com/yaklabco/twigcs"
)

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes a sniff.
type SARIFRule struct {
	ID               string               `json:"id"`
	ShortDescription SARIFMultiformatText `json:"shortDescription"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFResult represents a single violation.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

// SARIFRenderer formats results as SARIF.
type SARIFRenderer struct {
	opts Options
}

// NewSARIFRenderer creates a new SARIF renderer.
func NewSARIFRenderer(opts Options) *SARIFRenderer {
	return &SARIFRenderer{opts: opts}
}

// Render implements Renderer.
func (r *SARIFRenderer) Render(_ context.Context, rep *analysis.Report) error {
	encoder := json.NewEncoder(r.opts.Writer)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(r.buildOutput(rep)); err != nil {
		return fmt.Errorf("encode SARIF: %w", err)
	}
	return nil
}

func (r *SARIFRenderer) buildOutput(rep *analysis.Report) *SARIFOutput {
	version := r.opts.ToolVersion
	if version == "" {
		version = DefaultOptions().ToolVersion
	}

	run := SARIFRun{
		Tool: SARIFTool{Driver: SARIFDriver{
			Name:           toolName,
			Version:        version,
			InformationURI: toolInformationURI,
			Rules:          make([]SARIFRule, 0),
		}},
		Results: make([]SARIFResult, 0, len(rep.Violations)),
	}

	ruleIndex := make(map[string]int)
	for _, v := range rep.Violations {
		idx, ok := ruleIndex[v.Sniff]
		if !ok {
			desc := r.opts.SniffDescriptions[v.Sniff]
			if desc == "" {
				desc = v.Sniff
			}
			idx = len(run.Tool.Driver.Rules)
			ruleIndex[v.Sniff] = idx
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, SARIFRule{
				ID:               v.Sniff,
				ShortDescription: SARIFMultiformatText{Text: desc},
			})
		}

		run.Results = append(run.Results, SARIFResult{
			RuleID:    v.Sniff,
			RuleIndex: idx,
			Level:     levelToSARIF(v.Level),
			Message:   SARIFMessage{Text: v.Message},
			Locations: []SARIFLocation{{
				PhysicalLocation: SARIFPhysicalLocation{
					ArtifactLocation: SARIFArtifactLocation{URI: filepath.ToSlash(v.FilePath)},
					Region:           SARIFRegion{StartLine: max(v.Line, 1), StartColumn: v.Column},
				},
			}},
		})
	}

	return &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs:    []SARIFRun{run},
	}
}

// levelToSARIF converts a violation level to a SARIF level.
func levelToSARIF(level report.Level) string {
	switch level {
	case report.Fatal, report.Error:
		return "error"
	case report.Warning:
		return "warning"
	default:
		return "note"
	}
}
