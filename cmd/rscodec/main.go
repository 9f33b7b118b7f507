// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Command rscodec is a file-based demo front end for the rscore engine:
// it splits a file into n shards on disk, or reconstructs a file from
// whichever shards are still present.
package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/xtaci/rscore/engine"
	"github.com/xtaci/rscore/field"
)

// VERSION is injected by buildflags.
var VERSION = "SELFBUILD"

// Config mirrors the flag/JSON surface below; fields are filled either
// from the command line or from --config, the JSON file taking
// precedence for any field it sets explicitly.
type Config struct {
	N     int `json:"n"`
	K     int `json:"k"`
	Field int `json:"field"`
}

func parseJSONConfig(config *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(config)
}

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "rscodec"
	myApp.Usage = "Reed-Solomon erasure coding over the novel polynomial basis"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "n",
			Value: 256,
			Usage: "total shard count, power of two",
		},
		cli.IntFlag{
			Name:  "k",
			Value: 0,
			Usage: "data shard count, power of two, <= n (0 means n/3)",
		},
		cli.IntFlag{
			Name:  "field",
			Value: 16,
			Usage: "field width in bits, 8 or 16",
		},
		cli.StringFlag{
			Name:  "config,c",
			Usage: "read n/k/field from a JSON config file, overriding the flags above",
		},
	}
	myApp.Commands = []cli.Command{
		{
			Name:      "encode",
			Usage:     "split a file into n shards",
			ArgsUsage: "<input-file> <output-dir>",
			Action:    runEncode,
		},
		{
			Name:      "reconstruct",
			Usage:     "rebuild a file from whichever shards are present",
			ArgsUsage: "<shard-dir> <output-file>",
			Action:    runReconstruct,
		},
	}

	if err := myApp.Run(os.Args); err != nil {
		checkError(err)
	}
}

func loadConfig(c *cli.Context) (Config, error) {
	cfg := Config{N: c.GlobalInt("n"), K: c.GlobalInt("k"), Field: c.GlobalInt("field")}
	if path := c.GlobalString("config"); path != "" {
		if err := parseJSONConfig(&cfg, path); err != nil {
			return cfg, errors.Wrap(err, "parse config")
		}
	}
	return cfg, nil
}

func runEncode(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("usage: rscodec encode <input-file> <output-dir>")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	payload, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return errors.Wrap(err, "read input")
	}

	eng, err := engine.New(engine.Config{Field: field.Width(cfg.Field), N: cfg.N, K: cfg.K})
	if err != nil {
		return errors.Wrap(err, "build engine")
	}

	shards, err := eng.Encode(payload)
	if err != nil {
		return errors.Wrap(err, "encode")
	}

	outDir := c.Args().Get(1)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(err, "make output dir")
	}
	for i, shard := range shards {
		name := filepath.Join(outDir, shardFileName(i))
		if err := os.WriteFile(name, shard, 0o644); err != nil {
			return errors.Wrap(err, "write shard")
		}
	}

	log.Println("payload bytes:", len(payload))
	log.Println("field:", cfg.Field, "n:", eng.N(), "k:", eng.K())
	log.Println("shards written to:", outDir)
	return nil
}

func runReconstruct(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("usage: rscodec reconstruct <shard-dir> <output-file>")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	eng, err := engine.New(engine.Config{Field: field.Width(cfg.Field), N: cfg.N, K: cfg.K})
	if err != nil {
		return errors.Wrap(err, "build engine")
	}

	shardDir := c.Args().Get(0)
	shards := make([][]byte, eng.N())
	present := make([]bool, eng.N())
	numPresent := 0
	for i := range shards {
		data, err := os.ReadFile(filepath.Join(shardDir, shardFileName(i)))
		if err != nil {
			continue
		}
		shards[i] = data
		present[i] = true
		numPresent++
	}
	log.Println("shards present:", numPresent, "/", eng.N())

	payload, err := eng.Reconstruct(shards, present, -1)
	if err != nil {
		return errors.Wrap(err, "reconstruct")
	}

	if err := os.WriteFile(c.Args().Get(1), payload, 0o644); err != nil {
		return errors.Wrap(err, "write output")
	}
	log.Println("payload bytes:", len(payload))
	return nil
}

func shardFileName(i int) string {
	return "shard-" + strconv.Itoa(i) + ".bin"
}

func checkError(err error) {
	if err != nil {
		log.Printf("%+v\n", err)
		os.Exit(-1)
	}
}
