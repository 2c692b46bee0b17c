package main

import (
	"encoding/base64"
	"flag"
	"net/http"
	"os"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/fib-lab/traffic-dispatcher/internal/config"
	"github.com/fib-lab/traffic-dispatcher/internal/httpapi"
	"github.com/fib-lab/traffic-dispatcher/internal/store"
)

var (
	// 本程序监听的HTTP地址
	listenAddr = flag.String("listen", "", "HTTP listening address (overrides config file)")
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")

	// log
	logLevels = map[string]logrus.Level{
		"trace": logrus.TraceLevel,
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"off":   logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "", "log level (overrides config file; one of: trace debug info warn error off)")

	log = logrus.WithField("module", "dispatcher")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})

	c := loadConfig()
	rc := config.NewRuntimeConfig(c)

	level := rc.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	if l, ok := logLevels[level]; ok {
		logrus.SetLevel(l)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}

	addr := rc.ListenAddr
	if *listenAddr != "" {
		addr = *listenAddr
	}

	s := store.New()
	server := httpapi.NewServer(s)

	log.Infof("listening on %s", addr)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Panicf("server exited: %v", err)
	}
}

func loadConfig() config.Config {
	var c config.Config
	if *configPath == "" && *configData == "" {
		return c
	}

	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	}

	if err := yaml.UnmarshalStrict(file, &c); err != nil {
		log.Panicf("config file load err: %v", err)
	}
	return c
}
