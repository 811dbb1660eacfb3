package main

import (
	"github.com/ProjectsTask/EasySwapExplorer/src/cmd"
)

// main 程序入口, 例如 explorer serve --conf ./config/config.toml
func main() {
	cmd.Execute()
}
