/*
trafficsim runs a microscopic, discrete-time, discrete-space road-traffic
simulation: junctions, roads, lights, vehicles, pedestrians, and spawners
advancing one tick at a time behind a single mutex, served over HTTP for a
renderer or automation client to step, stop, and stream snapshots from.
*/
package main

import (
	"flag"
	"fmt"

	"trafficsim/engine"
	"trafficsim/server"
)

var (
	scenePath  *string
	configPath *string
	host       *string
	port       *string
	addr       string
)

// TODO: per 12-factor rules these should come from env/config-map; KISS for now.
func init() {
	scenePath = flag.String("scene", "./scene.json", "path to the scene JSON file to load")
	configPath = flag.String("config", "", "path to an engine config YAML file (optional, defaults used otherwise)")
	host = flag.String("host", "", "the host ip")
	port = flag.String("port", "8080", "the host port")
	flag.Parse()
	addr = *host + ":" + *port
}

func runApp() error {
	eng, err := engine.New(*scenePath, *configPath)
	if err != nil {
		return err
	}

	srv := server.NewServer(addr, eng)
	return srv.Serve()
}

func main() {
	if err := runApp(); err != nil {
		fmt.Println(err)
	}
}
