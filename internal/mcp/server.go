package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"notebox/internal/notes"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server with tools for note operations
func NewServer(svc *notes.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"Notebox",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Tool: list_notes - List notes through a view filter
	s.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List notes in insertion order. Use a filter to narrow to one category or to archived notes."),
			mcp.WithString("filter",
				mcp.Description("One of: all, project, business, personal, archived (default: all)"),
			),
		),
		handleListNotes(svc),
	)

	s.AddTool(
		mcp.NewTool("get_note",
			mcp.WithDescription("Get a specific note by its ID."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID"),
			),
		),
		handleGetNote(svc),
	)

	s.AddTool(
		mcp.NewTool("add_note",
			mcp.WithDescription("Create a note. Title and body must not be empty."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
			mcp.WithString("body", mcp.Required(), mcp.Description("Note content (markdown)")),
			mcp.WithString("category",
				mcp.Description("One of: project, business, personal (default: project)"),
			),
		),
		handleAddNote(svc),
	)

	// Tool: update_note - edits clear the archived flag
	s.AddTool(
		mcp.NewTool("update_note",
			mcp.WithDescription("Replace the title, body and category of a note. Editing un-archives the note."),
			mcp.WithString("id", mcp.Required(), mcp.Description("The note ID")),
			mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
			mcp.WithString("body", mcp.Required(), mcp.Description("Note content (markdown)")),
			mcp.WithString("category",
				mcp.Description("One of: project, business, personal (default: project)"),
			),
		),
		handleUpdateNote(svc),
	)

	s.AddTool(
		mcp.NewTool("delete_note",
			mcp.WithDescription("Delete a note. Deleting an unknown ID succeeds."),
			mcp.WithString("id", mcp.Required(), mcp.Description("The note ID")),
		),
		handleDeleteNote(svc),
	)

	s.AddTool(
		mcp.NewTool("set_archived",
			mcp.WithDescription("Archive or unarchive a note."),
			mcp.WithString("id", mcp.Required(), mcp.Description("The note ID")),
			mcp.WithBoolean("archived", mcp.Required(), mcp.Description("true to archive, false to unarchive")),
		),
		handleSetArchived(svc),
	)

	s.AddTool(
		mcp.NewTool("sync_notes",
			mcp.WithDescription("Replace all notes with the collection from the configured remote endpoint."),
		),
		handleSyncNotes(svc),
	)

	return s
}

func handleListNotes(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filter := notes.ParseFilter(req.GetString("filter", "all"))
		return jsonResult(svc.List(filter)), nil
	}
}

func handleGetNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		note, err := svc.GetByID(id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get note: %v", err)), nil
		}
		return jsonResult(note), nil
	}
}

func handleAddNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		note, err := svc.Create(ctx, noteInput(req))
		if err != nil {
			return toolError("add note", err), nil
		}
		return jsonResult(note), nil
	}
}

func handleUpdateNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		note, err := svc.Update(ctx, id, noteInput(req))
		if err != nil {
			return toolError("update note", err), nil
		}
		return jsonResult(note), nil
	}
}

func handleDeleteNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		if err := svc.Delete(ctx, id); err != nil {
			return toolError("delete note", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("note %s deleted", id)), nil
	}
}

func handleSetArchived(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}
		archived, err := req.RequireBool("archived")
		if err != nil {
			return mcp.NewToolResultError("archived is required"), nil
		}

		if err := svc.SetArchived(ctx, id, archived); err != nil {
			return toolError("set archived", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("note %s archived=%t", id, archived)), nil
	}
}

func handleSyncNotes(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		n, err := svc.Sync(ctx)
		if err != nil {
			return toolError("sync notes", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("synced %d notes", n)), nil
	}
}

// Helper functions

func noteInput(req mcp.CallToolRequest) notes.NoteInput {
	return notes.NoteInput{
		Title:    req.GetString("title", ""),
		Body:     req.GetString("body", ""),
		Category: req.GetString("category", string(notes.DefaultCategory)),
	}
}

func toolError(op string, err error) *mcp.CallToolResult {
	var pe *notes.PersistenceError
	if errors.As(err, &pe) {
		return mcp.NewToolResultError(fmt.Sprintf("%s: change kept in memory but not saved: %v", op, pe.Err))
	}
	return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", op, err))
}

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data))
}
