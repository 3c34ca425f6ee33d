package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ninja0404/token-risk/internal/app"
	"github.com/ninja0404/token-risk/internal/config"
)

func main() {
	configPath := flag.String("config", "./config/"+config.DefaultConfigPath, "配置文件路径")
	flag.Parse()

	application := app.New()
	if err := application.Start(*configPath); err != nil {
		fmt.Printf("应用启动失败: %v\n", err)
		os.Exit(1)
	}
}
