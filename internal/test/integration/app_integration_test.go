package integration

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"layercheck/internal/core/app"
	"layercheck/internal/core/config"
	"layercheck/internal/core/ports"
	"layercheck/internal/engine/layering"
	"layercheck/internal/ui/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopRules = `
[[tiers]]
pattern = "cmd/"
tier = 0

[[tiers]]
pattern = "pkg/"
tier = 1

[[tiers]]
pattern = "internal/"
tier = 2

[[tiers]]
pattern = "util"
tier = 3

[[boundaries]]
name = "internal"
public = ["pkg/"]
internal = ["internal/"]
`

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func createShopProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"go.mod": "module example.com/shop\n\ngo 1.24\n",
		"cmd/shop/main.go": `package main

import (
	"fmt"

	"example.com/shop/internal/core"
)

func main() { fmt.Println(core.Name()) }
`,
		"internal/core/core.go": `package core

import "example.com/shop/internal/store"

func Name() string { return store.Table }
`,
		"internal/store/store.go": `package store

import "example.com/shop/util"

var Table = util.Quote("orders")
`,
		"util/util.go": `package util

import "example.com/shop/internal/core"

var _ = core.Name

func Quote(s string) string { return "'" + s + "'" }
`,
		"pkg/api/api.go": `package api

import "example.com/shop/internal/store"

var Table = store.Table
`,
	})
	return root
}

func newApp(t *testing.T, root, content string) *app.App {
	t.Helper()
	cfg, err := config.Parse(content)
	require.NoError(t, err)
	cfg.Project.Root = root
	paths, err := config.ResolvePaths(cfg, root)
	require.NoError(t, err)
	a, err := app.New(cfg, paths)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func assertShopFindings(t *testing.T, res ports.CheckResult) {
	t.Helper()
	r := res.Report
	assert.Equal(t, 5, r.Summary.Modules)
	assert.Equal(t, 5, r.Summary.Edges)

	upward := r.ViolationsOf(layering.UpwardDependency)
	require.Len(t, upward, 1)
	assert.Equal(t, "example.com/shop/util", upward[0].From)
	assert.Equal(t, "example.com/shop/internal/core", upward[0].To)

	breaches := r.ViolationsOf(layering.EncapsulationBreach)
	require.Len(t, breaches, 1)
	assert.Equal(t, "example.com/shop/pkg/api", breaches[0].From)
	assert.Equal(t, "internal", breaches[0].Boundary)

	assert.Equal(t, 3, r.CycleCount)
	assert.False(t, r.IsClean())
}

func TestSourceExtractor_GoProject(t *testing.T) {
	root := createShopProject(t)
	a := newApp(t, root, "[project]\nextractor = \"source\"\n"+shopRules)
	assert.Equal(t, "example.com/shop", a.Namespace)

	res, err := a.Check(context.Background(), ports.CheckRequest{})
	require.NoError(t, err)
	assertShopFindings(t, res)

	chain, err := a.TraceChain(context.Background(), "cmd/shop", "util")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"example.com/shop/cmd/shop",
		"example.com/shop/internal/core",
		"example.com/shop/internal/store",
		"example.com/shop/util",
	}, chain)
}

func TestPackagesExtractor_GoProject(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go tool not available")
	}
	root := createShopProject(t)
	a := newApp(t, root, shopRules)

	res, err := a.Check(context.Background(), ports.CheckRequest{})
	require.NoError(t, err)
	assertShopFindings(t, res)
}

func TestEdgeFile_EndToEndScenario(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"edges.tsv": "proj/cmd/foo\tproj/internal/commands/bar\n" +
			"proj/internal/commands/bar\tproj/internal/collectors/baz\n" +
			"proj/internal/collectors/baz\tproj/internal/commands/bar\n",
	})
	a := newApp(t, root, `
[project]
edges_file = "edges.tsv"

[[tiers]]
pattern = "cmd/"
tier = 1

[[tiers]]
pattern = "internal/commands/"
tier = 2

[[tiers]]
pattern = "internal/collectors/"
tier = 3

[[boundaries]]
public = ["pkg/"]
internal = ["internal/private/"]
`)

	res, err := a.Check(context.Background(), ports.CheckRequest{})
	require.NoError(t, err)
	r := res.Report

	require.Len(t, r.Violations, 1)
	v := r.Violations[0]
	assert.Equal(t, layering.UpwardDependency, v.Kind)
	assert.Equal(t, "proj/internal/collectors/baz", v.From)
	assert.Equal(t, 3, v.FromTier)
	assert.Equal(t, "proj/internal/commands/bar", v.To)
	assert.Equal(t, 2, v.ToTier)

	require.Len(t, r.Cycles, 1)
	assert.Equal(t, "proj/internal/collectors/baz", r.Cycles[0].A)
	assert.Equal(t, "proj/internal/commands/bar", r.Cycles[0].B)
	assert.False(t, r.IsClean())

	for _, format := range report.Formats {
		var sb bytes.Buffer
		require.NoError(t, report.Render(&sb, format, r, report.Options{Graph: res.Graph}), format)
		assert.Contains(t, sb.String(), "baz", format)
	}
}
