package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blackwell-systems/artawatch/internal/analyzer"
	"github.com/blackwell-systems/artawatch/internal/suggest"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

// scopeArgs narrows a tool call to one campus and/or office.
type scopeArgs struct {
	Campus string `json:"campus,omitempty"`
	Office string `json:"office,omitempty"`
}

// recommendArgs are the arguments of get_recommendations.
type recommendArgs struct {
	scopeArgs
	Limit    int    `json:"limit,omitempty"`
	Category string `json:"category,omitempty"`
}

// DissatisfactionResult is the get_dissatisfaction payload.
type DissatisfactionResult struct {
	Summary       analyzer.DissatisfactionSummary        `json:"summary"`
	Dimensions    []analyzer.DimensionDissatisfactionRow `json:"dimension_analysis"`
	Offices       []analyzer.OfficeDissatisfactionRow    `json:"office_analysis"`
	CharterIssues []analyzer.CharterIssue                `json:"charter_issues"`
}

var (
	scopeSchema = json.RawMessage(`{"type":"object","properties":{` +
		`"campus":{"type":"string","description":"Only include records from this campus"},` +
		`"office":{"type":"string","description":"Only include records from this office"}` +
		`},"additionalProperties":false}`)
	recommendSchema = json.RawMessage(`{"type":"object","properties":{` +
		`"campus":{"type":"string","description":"Only include records from this campus"},` +
		`"office":{"type":"string","description":"Only include records from this office"},` +
		`"limit":{"type":"integer","description":"Maximum recommendations to return (default 10)"},` +
		`"category":{"type":"string","enum":["charter","service_quality","office"]}` +
		`},"additionalProperties":false}`)
)

// addTools registers the survey report tools on s.
func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "get_summary",
		Description: "Response counts, CC1-CC3 charter scores, overall SQD score, per-dimension scores and problem areas.",
		InputSchema: scopeSchema,
		Handler:     s.handleGetSummary,
	})
	s.registerTool(toolDef{
		Name:        "get_office_scores",
		Description: "Charter and service quality scores with interpretations for every office, most responses first.",
		InputSchema: scopeSchema,
		Handler:     s.handleGetOfficeScores,
	})
	s.registerTool(toolDef{
		Name:        "get_dissatisfaction",
		Description: "Dissatisfaction rate, negative answers per dimension, offices ordered by SQD score, and charter issues.",
		InputSchema: scopeSchema,
		Handler:     s.handleGetDissatisfaction,
	})
	s.registerTool(toolDef{
		Name:        "get_recommendations",
		Description: "Ranked improvement recommendations derived from the charter, dimension and office results.",
		InputSchema: recommendSchema,
		Handler:     s.handleGetRecommendations,
	})
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// records loads the collection narrowed to scope.
func (s *Server) records(scope scopeArgs) ([]survey.Record, error) {
	all, err := s.source.Load()
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	if scope.Campus == "" && scope.Office == "" {
		return all, nil
	}
	out := make([]survey.Record, 0, len(all))
	for _, r := range all {
		if matches(r.Campus, scope.Campus) && matches(r.Office, scope.Office) {
			out = append(out, r)
		}
	}
	return out, nil
}

func matches(value, want string) bool {
	return want == "" || strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(want))
}

func (s *Server) handleGetSummary(args json.RawMessage) (any, error) {
	var scope scopeArgs
	if err := decodeArgs(args, &scope); err != nil {
		return nil, err
	}
	records, err := s.records(scope)
	if err != nil {
		return nil, err
	}
	return analyzer.Summarize(records, s.thresholds.Problem), nil
}

func (s *Server) handleGetOfficeScores(args json.RawMessage) (any, error) {
	var scope scopeArgs
	if err := decodeArgs(args, &scope); err != nil {
		return nil, err
	}
	records, err := s.records(scope)
	if err != nil {
		return nil, err
	}
	return analyzer.OfficeScores(records), nil
}

func (s *Server) handleGetDissatisfaction(args json.RawMessage) (any, error) {
	var scope scopeArgs
	if err := decodeArgs(args, &scope); err != nil {
		return nil, err
	}
	records, err := s.records(scope)
	if err != nil {
		return nil, err
	}
	return DissatisfactionResult{
		Summary:       analyzer.SummarizeDissatisfaction(records),
		Dimensions:    analyzer.DimensionDissatisfaction(records),
		Offices:       analyzer.OfficeDissatisfaction(records),
		CharterIssues: analyzer.CharterIssues(records),
	}, nil
}

func (s *Server) handleGetRecommendations(args json.RawMessage) (any, error) {
	var a recommendArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Limit <= 0 {
		a.Limit = 10
	}
	records, err := s.records(a.scopeArgs)
	if err != nil {
		return nil, err
	}
	all := suggest.NewEngine().Run(suggest.BuildContext(records, s.thresholds))
	return suggest.Top(all, a.Category, a.Limit), nil
}
