package rpc

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/geode-solver/internal/solver/batch"
	"github.com/napolitain/geode-solver/internal/solver/geode"
)

// Request mirrors the fields of a Solve request.
// Nil pointers fall back to the server configuration.
type Request struct {
	Blueprints string
	Horizon    *int
	Policy     string
	Top        int
	TopHorizon *int
}

// BlueprintResult is one entry of a Reply
type BlueprintResult struct {
	Blueprint int
	Geodes    int
	Quality   int
}

// Reply mirrors the fields of a Solve response
type Reply struct {
	Horizon    int
	QualitySum int
	Results    []BlueprintResult
	TopHorizon int
	Product    int
}

// ToStruct converts a request to its wire form
func (r Request) ToStruct() (*structpb.Struct, error) {
	fields := map[string]any{
		"blueprints": r.Blueprints,
		"top":        r.Top,
	}
	if r.Horizon != nil {
		fields["horizon"] = *r.Horizon
	}
	if r.TopHorizon != nil {
		fields["top_horizon"] = *r.TopHorizon
	}
	if r.Policy != "" {
		fields["policy"] = r.Policy
	}
	return structpb.NewStruct(fields)
}

// RequestFromStruct converts the wire form to a request
func RequestFromStruct(s *structpb.Struct) (Request, error) {
	var req Request
	fields := s.GetFields()

	for name := range fields {
		switch name {
		case "blueprints", "horizon", "policy", "top", "top_horizon":
		default:
			return req, fmt.Errorf("unknown field %q", name)
		}
	}

	bp, ok := fields["blueprints"]
	if !ok {
		return req, fmt.Errorf("field %q is required", "blueprints")
	}
	if _, isString := bp.GetKind().(*structpb.Value_StringValue); !isString {
		return req, fmt.Errorf("field %q must be a string", "blueprints")
	}
	req.Blueprints = bp.GetStringValue()

	if v, ok := fields["policy"]; ok {
		if _, isString := v.GetKind().(*structpb.Value_StringValue); !isString {
			return req, fmt.Errorf("field %q must be a string", "policy")
		}
		req.Policy = v.GetStringValue()
	}

	var err error
	if req.Horizon, err = optionalInt(fields, "horizon"); err != nil {
		return req, err
	}
	if req.TopHorizon, err = optionalInt(fields, "top_horizon"); err != nil {
		return req, err
	}
	top, err := optionalInt(fields, "top")
	if err != nil {
		return req, err
	}
	if top != nil {
		req.Top = *top
	}

	return req, nil
}

// optionalInt reads a non-negative whole number
func optionalInt(fields map[string]*structpb.Value, name string) (*int, error) {
	v, ok := fields[name]
	if !ok {
		return nil, nil
	}
	if _, isNumber := v.GetKind().(*structpb.Value_NumberValue); !isNumber {
		return nil, fmt.Errorf("field %q must be a number", name)
	}
	f := v.GetNumberValue()
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return nil, fmt.Errorf("field %q must be a non-negative integer, got %v", name, f)
	}
	n := int(f)
	return &n, nil
}

// reportToStruct converts a batch report to the wire form
func reportToStruct(report batch.Report) (*structpb.Struct, error) {
	fields := map[string]any{
		"horizon":     report.Horizon,
		"quality_sum": report.QualitySum,
		"results":     resultsToList(report.Results),
	}
	if report.Top > 0 {
		fields["top"] = report.Top
		fields["top_horizon"] = report.TopHorizon
		fields["top_results"] = resultsToList(report.TopResults)
		fields["product"] = report.Product
	}
	return structpb.NewStruct(fields)
}

func resultsToList(results []geode.Result) []any {
	list := make([]any, len(results))
	for i, r := range results {
		list[i] = map[string]any{
			"blueprint":     r.BlueprintID,
			"geodes":        r.Geodes,
			"quality":       r.Quality(),
			"policy":        r.Policy.String(),
			"peak_frontier": r.Stats.PeakFrontier,
			"elapsed_ms":    float64(r.Stats.Elapsed.Microseconds()) / 1000,
		}
	}
	return list
}

// ReplyFromStruct decodes a Solve response. Missing fields read as zero.
func ReplyFromStruct(s *structpb.Struct) Reply {
	fields := s.GetFields()
	reply := Reply{
		Horizon:    int(fields["horizon"].GetNumberValue()),
		QualitySum: int(fields["quality_sum"].GetNumberValue()),
		TopHorizon: int(fields["top_horizon"].GetNumberValue()),
		Product:    int(fields["product"].GetNumberValue()),
	}
	for _, v := range fields["results"].GetListValue().GetValues() {
		entry := v.GetStructValue().GetFields()
		reply.Results = append(reply.Results, BlueprintResult{
			Blueprint: int(entry["blueprint"].GetNumberValue()),
			Geodes:    int(entry["geodes"].GetNumberValue()),
			Quality:   int(entry["quality"].GetNumberValue()),
		})
	}
	return reply
}
