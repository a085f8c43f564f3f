package api

import (
	"fmt"

	"github.com/nixpig/jobconsole/internal/jobcontrol"
	"google.golang.org/protobuf/types/known/structpb"
)

type ExecRequest struct {
	Command string
	Args    []string
}

type Line struct {
	Level string
	Text  string
}

type ExecResponse struct {
	OK      bool
	Error   string
	Lines   []Line
	Listing string
	Detail  string
	Help    string
}

type CompleteRequest struct {
	Command string
	Words   []string
}

type CompleteResponse struct {
	Candidates []string
}

type RunJobRequest struct {
	Name    string
	Program string
	Args    []string
}

type RunJobResponse struct {
	ID int
}

// NewExecResponse converts the outcome of a console command for the wire.
// err is the command's aborting error, if any.
func NewExecResponse(res *jobcontrol.Result, err error) *ExecResponse {
	resp := &ExecResponse{}

	if res != nil {
		resp.OK = res.OK
		resp.Listing = res.Listing
		resp.Detail = res.Detail
		resp.Help = res.Help

		for _, line := range res.Lines {
			resp.Lines = append(resp.Lines, Line{
				Level: line.Level.String(),
				Text:  line.Text,
			})
		}
	}

	if err != nil {
		resp.OK = false
		resp.Error = err.Error()
	}

	return resp
}

// Result converts the response back into a console Result for rendering.
// Error line causes are not carried over the wire.
func (r *ExecResponse) Result() *jobcontrol.Result {
	res := &jobcontrol.Result{
		OK:      r.OK,
		Listing: r.Listing,
		Detail:  r.Detail,
		Help:    r.Help,
	}

	for _, line := range r.Lines {
		res.Lines = append(res.Lines, jobcontrol.Line{
			Level: jobcontrol.ParseLevel(line.Level),
			Text:  line.Text,
		})
	}

	return res
}

func (r *ExecRequest) toProto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"command": r.Command,
		"args":    anySlice(r.Args),
	})
}

func decodeExecRequest(s *structpb.Struct) (*ExecRequest, error) {
	args, err := stringsField(s, "args")
	if err != nil {
		return nil, err
	}

	return &ExecRequest{
		Command: s.GetFields()["command"].GetStringValue(),
		Args:    args,
	}, nil
}

func (r *ExecResponse) toProto() (*structpb.Struct, error) {
	lines := make([]any, len(r.Lines))
	for i, line := range r.Lines {
		lines[i] = map[string]any{"level": line.Level, "text": line.Text}
	}

	return structpb.NewStruct(map[string]any{
		"ok":      r.OK,
		"error":   r.Error,
		"lines":   lines,
		"listing": r.Listing,
		"detail":  r.Detail,
		"help":    r.Help,
	})
}

func decodeExecResponse(s *structpb.Struct) (*ExecResponse, error) {
	fields := s.GetFields()

	resp := &ExecResponse{
		OK:      fields["ok"].GetBoolValue(),
		Error:   fields["error"].GetStringValue(),
		Listing: fields["listing"].GetStringValue(),
		Detail:  fields["detail"].GetStringValue(),
		Help:    fields["help"].GetStringValue(),
	}

	for i, v := range fields["lines"].GetListValue().GetValues() {
		line := v.GetStructValue()
		if line == nil {
			return nil, fmt.Errorf("lines[%d]: expected struct", i)
		}

		resp.Lines = append(resp.Lines, Line{
			Level: line.GetFields()["level"].GetStringValue(),
			Text:  line.GetFields()["text"].GetStringValue(),
		})
	}

	return resp, nil
}

func (r *CompleteRequest) toProto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"command": r.Command,
		"words":   anySlice(r.Words),
	})
}

func decodeCompleteRequest(s *structpb.Struct) (*CompleteRequest, error) {
	words, err := stringsField(s, "words")
	if err != nil {
		return nil, err
	}

	return &CompleteRequest{
		Command: s.GetFields()["command"].GetStringValue(),
		Words:   words,
	}, nil
}

func (r *CompleteResponse) toProto() (*structpb.ListValue, error) {
	return structpb.NewList(anySlice(r.Candidates))
}

func (r *RunJobRequest) toProto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"name":    r.Name,
		"program": r.Program,
		"args":    anySlice(r.Args),
	})
}

func decodeRunJobRequest(s *structpb.Struct) (*RunJobRequest, error) {
	args, err := stringsField(s, "args")
	if err != nil {
		return nil, err
	}

	return &RunJobRequest{
		Name:    s.GetFields()["name"].GetStringValue(),
		Program: s.GetFields()["program"].GetStringValue(),
		Args:    args,
	}, nil
}

func anySlice(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}

	return out
}

func stringsField(s *structpb.Struct, key string) ([]string, error) {
	list, err := stringList(s.GetFields()[key].GetListValue())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	return list, nil
}

func stringList(l *structpb.ListValue) ([]string, error) {
	var out []string

	for i, v := range l.GetValues() {
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("item %d: expected string", i)
		}

		out = append(out, sv.StringValue)
	}

	return out, nil
}
