package mcp

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/timer"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListNotesTool(srv, svc)
	registerGetNoteTool(srv, svc)
	registerSetFieldTool(srv, svc)
	registerCompleteNoteTool(srv, svc)
	registerReopenNoteTool(srv, svc)
	registerSearchNotesTool(srv, svc)
	registerTimerTools(srv, svc)
	registerStatsTool(srv, svc)
}

func dateArg() mcp.ToolOption {
	return mcp.WithString("date",
		mcp.Description("Day as YYYY-MM-DD. Defaults to the current day."),
	)
}

func numberArg(desc string) mcp.ToolOption {
	return mcp.WithNumber("number",
		mcp.Required(),
		mcp.Description(desc),
	)
}

type noteArgs struct {
	Date   string `json:"date"`
	Number int    `json:"number"`
}

func registerListNotesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_notes",
		mcp.WithDescription("List the notes of a day with its timers and time totals."),
		dateArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Date string `json:"date"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		day, err := svc.Day(ctx, args.Date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(day)
	})
}

func registerGetNoteTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_note",
		mcp.WithDescription("Fetch a single note by its number."),
		numberArg("Note number on the day."),
		dateArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args noteArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		view, err := svc.GetNote(ctx, args.Date, args.Number)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(view)
	})
}

func fieldNames() []string {
	out := make([]string, 0, len(note.Fields()))
	for _, f := range note.Fields() {
		out = append(out, string(f))
	}
	return out
}

func registerSetFieldTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"set_note_field",
		mcp.WithDescription("Write a field of an open note. The first text written starts the note timer."),
		numberArg("Note number on the day."),
		mcp.WithString("field",
			mcp.Required(),
			mcp.Description("Field to write."),
			mcp.Enum(fieldNames()...),
		),
		mcp.WithString("value",
			mcp.Description("New field value. Empty clears the field."),
		),
		dateArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			noteArgs
			Field string `json:"field"`
			Value string `json:"value"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		view, err := svc.SetField(ctx, args.Date, args.Number, args.Field, args.Value)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(view)
	})
}

func registerCompleteNoteTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"complete_note",
		mcp.WithDescription("Complete a note and stop its timer. A canceled note stays canceled."),
		numberArg("Note number to complete."),
		mcp.WithBoolean("canceled",
			mcp.Description("Mark the note canceled as well."),
		),
		dateArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			noteArgs
			Canceled bool `json:"canceled"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		day, err := svc.CompleteNote(ctx, args.Date, args.Number, args.Canceled)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(day)
	})
}

func registerReopenNoteTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"reopen_note",
		mcp.WithDescription("Reopen a completed note and resume its timer."),
		numberArg("Note number to reopen."),
		dateArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args noteArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		view, err := svc.ReopenNote(ctx, args.Date, args.Number)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(view)
	})
}

func registerSearchNotesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_notes",
		mcp.WithDescription("Find notes on any day by project, attempt or operation ID."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive text to look for."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		results, err := svc.Search(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query":   query,
			"results": results,
			"count":   len(results),
		})
	})
}

func categoryNames() []string {
	out := make([]string, 0, len(timer.Categories()))
	for _, c := range timer.Categories() {
		out = append(out, string(c))
	}
	return out
}

func registerTimerTools(srv *server.MCPServer, svc *Service) {
	for _, t := range []struct {
		name, desc string
		fn         func(context.Context, string) (any, error)
	}{{
		name: "start_timer",
		desc: "Start an off-platform timer on the current day. Any other running timer stops.",
		fn: func(ctx context.Context, c string) (any, error) {
			return svc.StartTimer(ctx, c)
		},
	}, {
		name: "stop_timer",
		desc: "Stop an off-platform timer on the current day.",
		fn: func(ctx context.Context, c string) (any, error) {
			return svc.StopTimer(ctx, c)
		},
	}} {
		fn := t.fn
		tool := mcp.NewTool(
			t.name,
			mcp.WithDescription(t.desc),
			mcp.WithString("category",
				mcp.Required(),
				mcp.Description("Timer category."),
				mcp.Enum(categoryNames()...),
			),
		)
		srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			category, err := request.RequireString("category")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			timers, err := fn(ctx, category)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return toJSONResult(timers)
		})
	}
}

func registerStatsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"stats",
		mcp.WithDescription("Statistics for a day, or for a window of days ending today."),
		dateArg(),
		mcp.WithString("window",
			mcp.Description("Window such as 3d or 1w. Overrides date."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Date   string `json:"date"`
			Window string `json:"window"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Window != "" {
			sum, err := svc.Summary(ctx, args.Window)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return toJSONResult(sum)
		}
		st, err := svc.Stats(ctx, args.Date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(st)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := sonic.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
