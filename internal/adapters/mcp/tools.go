package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchLibraryTool defines the search_library MCP tool.
var searchLibraryTool = mcp.NewTool("search_library",
	mcp.WithDescription("Search an owner's snippet library by title, content, language, or tag. Returns matching files and snippets."),
	mcp.WithString("owner_id",
		mcp.Required(),
		mcp.Description("Owner whose library is searched"),
	),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Search terms"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
)

// classifyTextTool defines the classify_text MCP tool.
var classifyTextTool = mcp.NewTool("classify_text",
	mcp.WithDescription("Detect the programming language and topic of a block of text, with suggested tags."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Raw code or prose to classify"),
	),
)

// proposeNameTool defines the propose_name MCP tool.
var proposeNameTool = mcp.NewTool("propose_name",
	mcp.WithDescription("Propose a descriptive file name for a block of code, ranked for uniqueness against the owner's existing titles."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Code to name"),
	),
	mcp.WithString("owner_id",
		mcp.Description("Owner whose existing titles steer uniqueness scoring"),
	),
	mcp.WithString("language",
		mcp.Description("Language hint; detected from the text when absent"),
	),
)

// organizationReportTool defines the organization_report MCP tool.
var organizationReportTool = mcp.NewTool("organization_report",
	mcp.WithDescription("Analyze an owner's library and report reorganization plans without executing any of them."),
	mcp.WithString("owner_id",
		mcp.Required(),
		mcp.Description("Owner whose library is analyzed"),
	),
)
