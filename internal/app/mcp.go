package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/artawatch/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP stdio server over the survey collection",
	Long: `Start a Model Context Protocol stdio server that an assistant can
query for survey results. The server exposes four tools:

  get_summary          Charter scores, overall SQD and problem areas
  get_office_scores    Per-office charter and SQD scores
  get_dissatisfaction  Dissatisfied responses by dimension and office
  get_recommendations  Ranked improvement recommendations

Every tool takes optional "campus" and "office" arguments.

Example client configuration:
  {"mcpServers":{"artawatch":{"command":"artawatch","args":["mcp"]}}}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.db.Close()

	srv := mcp.NewServer(ws.db, thresholdsFrom(ws.cfg), appVersion, logger.Named("mcp"))
	return srv.Run(cmd.Context(), os.Stdin, os.Stdout)
}
