package cmd

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"heat1d/material"
	"heat1d/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve analyses over websocket",
	Long: `
Starts the websocket endpoint /ws and the prometheus endpoint /metrics.
A client sends "env" with the analysis, then "start"; recorded frames are
streamed as "frame" messages followed by "finished".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newServer()
		if err != nil {
			return err
		}
		return s.Serve()
	},
}

// newServer 使用 viper 中的 addr 和 solver-config 创建服务
func newServer() (*server.Server, error) {
	cfg, err := solverConfig()
	if err != nil {
		return nil, err
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	return server.NewServer(viper.GetString("addr"), upgrader, cfg, material.Default()), nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":9000", "listen address")
	_ = viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
}
