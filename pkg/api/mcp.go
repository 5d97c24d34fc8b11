package api

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/observatorio-cat/observatorio/pkg/kit"
)

// RegisterMCPTools registers the observatory MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, svc *Service) {
	registerQueryDataset(srv, svc)
	registerDatasetCounts(srv, svc)
	registerDatasetProfile(srv, svc)
}

func registerQueryDataset(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool("query_dataset",
		mcp.WithDescription("Query the workplace accident dataset with optional filters (state, region, month, sector, free text search)."),
		mcp.WithString("uf", mcp.Description("Comma-separated state codes (e.g. PR,SP)")),
		mcp.WithString("regiao", mcp.Description("Comma-separated regions (e.g. Sul,Sudeste)")),
		mcp.WithString("mes", mcp.Description("Month filter as YYYY-MM")),
		mcp.WithString("ano", mcp.Description("Year filter as YYYY")),
		mcp.WithString("setor", mcp.Description("Comma-separated economic sectors")),
		mcp.WithString("termo", mcp.Description("Case-insensitive search term over text columns")),
		mcp.WithNumber("limit", mcp.Description("Maximum rows to return (default 50)")),
	)

	kit.RegisterMCPTool(srv, tool, svc.queryEndpoint(), func(req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		q := &queryReq{
			UF:     argList(args, "uf"),
			Regiao: argList(args, "regiao"),
			Setor:  argList(args, "setor"),
			Limit:  50,
		}
		q.Mes, _ = args["mes"].(string)
		q.Ano, _ = args["ano"].(string)
		q.Termo, _ = args["termo"].(string)
		if v, ok := args["limit"].(float64); ok && v > 0 {
			q.Limit = int(v)
		}
		return q, nil
	})
}

func registerDatasetCounts(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool("dataset_counts",
		mcp.WithDescription("Count accident records grouped by a dataset column (e.g. uf_sigla, regiao, setor, tipo_acidente)."),
		mcp.WithString("column", mcp.Required(), mcp.Description("Column to group by")),
		mcp.WithNumber("top_n", mcp.Description("Keep only the N most frequent values")),
		mcp.WithString("uf", mcp.Description("Comma-separated state codes to filter first")),
		mcp.WithString("regiao", mcp.Description("Comma-separated regions to filter first")),
	)

	kit.RegisterMCPTool(srv, tool, svc.countsEndpoint(), func(req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		c := &countsReq{}
		c.Column, _ = args["column"].(string)
		if v, ok := args["top_n"].(float64); ok {
			c.TopN = int(v)
		}
		c.UF = argList(args, "uf")
		c.Regiao = argList(args, "regiao")
		return c, nil
	})
}

func registerDatasetProfile(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool("dataset_profile",
		mcp.WithDescription("Describe the loaded dataset: per-column types, null counts and distinct counts, plus enrichment diagnostics."),
	)

	kit.RegisterMCPTool(srv, tool, svc.profileEndpoint(), func(_ mcp.CallToolRequest) (any, error) {
		return nil, nil
	})
}

func argList(args map[string]any, name string) []string {
	v, _ := args[name].(string)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
