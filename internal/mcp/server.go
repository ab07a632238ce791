package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"thinkvault/internal/board"
	"thinkvault/internal/notes"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server with tools for board operations
func NewServer(svc *notes.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"ThinkVault",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Tool: list_board - Every note grouped by column
	s.AddTool(
		mcp.NewTool("list_board",
			mcp.WithDescription("List every note grouped into the pending, current and completed columns, in board order. Use this to get an overview of the board."),
			mcp.WithString("query",
				mcp.Description("Optional: only include notes whose title or content contains this text (case-insensitive)"),
			),
		),
		handleListBoard(svc),
	)

	// Tool: search_notes - Title/content search
	s.AddTool(
		mcp.NewTool("search_notes",
			mcp.WithDescription("Search notes by title or content (case-insensitive substring match), optionally within one column."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Text to look for in note titles and contents"),
			),
			mcp.WithString("status",
				mcp.Description("Optional: pending, current or completed"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of notes to return (default: 50, max: 500)"),
			),
		),
		handleSearchNotes(svc),
	)

	// Tool: get_note - Get a specific note by ID
	s.AddTool(
		mcp.NewTool("get_note",
			mcp.WithDescription("Get a specific note by its ID. Use this when you have a note ID and need the full content."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID (24-character hex string)"),
			),
		),
		handleGetNote(svc),
	)

	// Tool: create_note - Add a note to the pending column
	s.AddTool(
		mcp.NewTool("create_note",
			mcp.WithDescription("Create a note. New notes land at the end of the pending column."),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Note title"),
			),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("Note body (markdown)"),
			),
		),
		handleCreateNote(svc),
	)

	// Tool: move_note - Drop a note onto a column slot
	s.AddTool(
		mcp.NewTool("move_note",
			mcp.WithDescription("Move a note to a column and index. Every column is renumbered afterwards, so positions stay dense."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID"),
			),
			mcp.WithString("status",
				mcp.Required(),
				mcp.Description("Destination column: pending, current or completed"),
			),
			mcp.WithNumber("index",
				mcp.Description("Zero-based slot in the destination column (default: 0; past the end appends)"),
			),
		),
		handleMoveNote(svc),
	)

	// Tool: delete_note - Delete a note
	s.AddTool(
		mcp.NewTool("delete_note",
			mcp.WithDescription("Delete a note permanently."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID"),
			),
		),
		handleDeleteNote(svc),
	)

	return s
}

// NoteResult represents a note in tool responses
type NoteResult struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Status    board.Status `json:"status"`
	Position  int          `json:"position"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// BoardResult is the board split into columns.
type BoardResult struct {
	Pending   []NoteResult `json:"pending"`
	Current   []NoteResult `json:"current"`
	Completed []NoteResult `json:"completed"`
}

func handleListBoard(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		all, err := svc.Board(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list board: %v", err)), nil
		}
		return jsonResult(boardResult(board.Filter(all, req.GetString("query", "")))), nil
	}
}

func handleSearchNotes(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		q := notes.SearchQuery{
			Query: query,
			Limit: req.GetInt("limit", 50),
		}
		if status := req.GetString("status", ""); status != "" {
			st, ok := board.ParseStatus(status)
			if !ok || st == board.Trash {
				return mcp.NewToolResultError(fmt.Sprintf("unknown status %q", status)), nil
			}
			q.Status = st
		}

		noteList, err := svc.Search(ctx, q)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to search notes: %v", err)), nil
		}

		results := make([]NoteResult, len(noteList))
		for i, n := range noteList {
			results[i] = noteResult(n.Board())
		}
		return jsonResult(results), nil
	}
}

func handleGetNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		note, err := svc.GetByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get note: %v", err)), nil
		}
		return jsonResult(noteResult(note.Board())), nil
	}
}

func handleCreateNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError("title is required"), nil
		}
		content, err := req.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError("content is required"), nil
		}

		note, err := svc.Create(ctx, notes.CreateNoteInput{Title: title, Content: content})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create note: %v", err)), nil
		}
		return jsonResult(noteResult(note.Board())), nil
	}
}

func handleMoveNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}
		status, err := req.RequireString("status")
		if err != nil {
			return mcp.NewToolResultError("status is required"), nil
		}
		st, ok := board.ParseStatus(status)
		if !ok || st == board.Trash {
			return mcp.NewToolResultError(fmt.Sprintf("unknown status %q; use delete_note to remove a note", status)), nil
		}

		updated, err := svc.Move(ctx, id, st, req.GetInt("index", 0))
		if errors.Is(err, notes.ErrNoteNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("note %s not found", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to move note: %v", err)), nil
		}
		return jsonResult(boardResult(updated)), nil
	}
}

func handleDeleteNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		if err := svc.Delete(ctx, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to delete note: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("note %s deleted", id)), nil
	}
}

// Helper functions

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data))
}

func noteResult(n board.Note) NoteResult {
	return NoteResult{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Status:    n.Status,
		Position:  n.Position,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func boardResult(all []board.Note) BoardResult {
	groups := board.GroupByStatus(all)
	column := func(st board.Status) []NoteResult {
		out := make([]NoteResult, len(groups[st]))
		for i, n := range groups[st] {
			out[i] = noteResult(n)
		}
		return out
	}
	return BoardResult{
		Pending:   column(board.StatusPending),
		Current:   column(board.StatusCurrent),
		Completed: column(board.StatusCompleted),
	}
}
