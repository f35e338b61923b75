package cmd

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"heat1d/calculator"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "heat1d",
	Short: "Transient heat conduction through a window pane",
	Long: `
Solves the 1D heat equation across a plate with fixed temperatures on both
faces, using either the explicit FTCS scheme or backward Euler with
Gauss-Seidel iteration.

heat1d run -m implicit -o result.csv`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(viper.GetString("log-level"))
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.heat1d.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "logrus level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("solver-config", "", "ini file with a [calculator] section (MaxSweeps, Tolerance, Workers, ...)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("solver-config", rootCmd.PersistentFlags().Lookup("solver-config"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			log.WithError(err).Warn("cannot find home directory")
		} else {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".heat1d")
	}

	viper.SetEnvPrefix("heat1d")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	} else if cfgFile != "" {
		fmt.Fprintln(os.Stderr, "error reading config:", err)
	}
}

// solverConfig 读取 --solver-config 指定的 ini 文件，没有指定时使用默认参数
func solverConfig() (calculator.Config, error) {
	path := viper.GetString("solver-config")
	if path == "" {
		return calculator.DefaultConfig(), nil
	}
	cfg, err := calculator.LoadConfig(path)
	if err != nil {
		return cfg, fmt.Errorf("solver config %s: %w", path, err)
	}
	return cfg, nil
}
