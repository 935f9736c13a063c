package cmd

import (
	"github.com/huangsam/blqdash/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the blqdash MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents query trends, volumes,
emissions, efficiency, annotations and chart figures as tools.

The persistent selection flags become the defaults of every tool call.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, traffic, cacheManager)
	},
}
