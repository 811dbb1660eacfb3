// Package cmd 命令行入口: serve 启动 HTTP 服务, query 执行单次查询
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/ProjectsTask/EasySwapExplorer/src/config"
)

const defaultConfigFile = ".easyswap/explorer.toml"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "explorer",
	Short: "EasySwap NFT explorer query service.",
	Long:  "Query NFTs by metadata, marketplace orders, owners and transfer history.",
}

// Execute 解析命令行参数并执行相应的命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "conf", "", "config file (default is $HOME/"+defaultConfigFile+")")
}

// loadConfig 读取 --conf 指定的配置文件, 未指定时使用用户目录下的默认路径
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, defaultConfigFile)
	}
	return config.UnmarshalConfig(path)
}
