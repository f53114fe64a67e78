//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"errors"
	"syscall/js"
	"time"

	"github.com/hack-pad/hackpadfs/indexeddb"

	"github.com/kittclouds/ontokit/pkg/grammar"
	"github.com/kittclouds/ontokit/pkg/grammar/en"
	"github.com/kittclouds/ontokit/pkg/model"
	"github.com/kittclouds/ontokit/pkg/ontology"
	"github.com/kittclouds/ontokit/pkg/output"
	"github.com/kittclouds/ontokit/pkg/resolver"
)

// Version info
const Version = "0.1.0"

// Global state
var parser *ontology.Parser

func main() {
	println("[OntoKit] WASM Ready v" + Version)

	// Register exports
	js.Global().Set("OntoKit", js.ValueOf(map[string]interface{}{
		"version":    js.FuncOf(getVersion),
		"initialize": js.FuncOf(initialize),
		"parse":      js.FuncOf(parse),
		"analyse":    js.FuncOf(analyse),
		"info":       js.FuncOf(info),
	}))

	select {}
}

func getVersion(this js.Value, args []js.Value) interface{} {
	return Version
}

// initialize loads the model of a language from IndexedDB, training and
// storing one on first use.
// Args: [lang string] - optional, default "en"
func initialize(this js.Value, args []js.Value) interface{} {
	lang := "en"
	if len(args) > 0 && args[0].String() != "" {
		lang = args[0].String()
	}

	fs, err := indexeddb.NewFS(context.Background(), "ontokit", indexeddb.Options{})
	if err != nil {
		return errorResult("failed to create idb fs: " + err.Error())
	}
	reg := grammar.Default(fs)
	l, err := reg.Lookup(lang)
	if err != nil {
		return errorResult(err.Error())
	}

	p, err := ontology.BuildParser(reg, l)
	if errors.Is(err, model.ErrModelNotFound) {
		start := time.Now()
		var stats model.TrainStats
		p, stats, err = ontology.TrainParser(reg, l)
		if err == nil {
			err = reg.SaveModel(l, p.Model())
			println("[OntoKit] ✅ Model trained:", stats.Examples, "examples in", time.Since(start).String())
		}
	}
	if err != nil {
		return errorResult(err.Error())
	}

	parser = p
	return successResult("initialized")
}

// parse extracts values from text
// Args: [text string, kinds string (optional, comma separated), referenceMillis number (optional)]
func parse(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("parse requires at least 1 argument: text")
	}
	if parser == nil {
		return errorResult("parser not initialized")
	}

	order, err := kindsArg(args, 1)
	if err != nil {
		return errorResult(err.Error())
	}
	ctx := resolver.DefaultContext()
	if len(args) > 2 && args[2].Type() == js.TypeNumber {
		ctx = resolver.NewContext(time.UnixMilli(int64(args[2].Float())))
	}

	start := time.Now()
	matches, err := parser.ParseWithKindOrder(args[0].String(), ctx, order)
	if err != nil {
		return errorResult(err.Error())
	}

	// Wrap in a response object including timing
	return jsonResult(map[string]interface{}{
		"matches":   matches,
		"timing_us": time.Since(start).Microseconds(),
	})
}

// analyse evaluates the parser over the built-in corpus
// Args: [kinds string (optional)]
func analyse(this js.Value, args []js.Value) interface{} {
	if parser == nil {
		return errorResult("parser not initialized")
	}
	order, err := kindsArg(args, 0)
	if err != nil {
		return errorResult(err.Error())
	}
	corpus, err := en.DefaultCorpus()
	if err != nil {
		return errorResult(err.Error())
	}
	report, err := parser.AnalyseWithKindOrder(corpus.Examples, corpus.Context(), order)
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(report)
}

func info(this js.Value, args []js.Value) interface{} {
	if parser == nil {
		return errorResult("parser not initialized")
	}
	return jsonResult(map[string]interface{}{
		"rules":        parser.NumRules(),
		"textPatterns": parser.NumTextPatterns(),
	})
}

func kindsArg(args []js.Value, i int) ([]output.Kind, error) {
	if len(args) <= i || args[i].Type() != js.TypeString || args[i].String() == "" {
		return output.All(), nil
	}
	return output.ParseKinds(args[i].String())
}

func jsonResult(v interface{}) interface{} {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return errorResult(err.Error())
	}
	return string(jsonBytes)
}

// Helper: Create error result
func errorResult(msg string) interface{} {
	result := map[string]interface{}{
		"error": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}

// Helper: Create success result
func successResult(msg string) interface{} {
	result := map[string]interface{}{
		"success": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}
