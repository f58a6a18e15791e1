// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package lint finds cache names used by more than one load-or-make call
// across Python scripts, notebooks and Go sources.
package lint

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
)

const (
	// PythonDecorator is the memoizing decorator of the Python checks.
	PythonDecorator = "load_or_make"
	// GoMethod is the memoizing method of the Go checks.
	GoMethod = "LoadOrMake"
)

// DefaultExclude lists directory names never scanned.
var DefaultExclude = []string{"_build"}

// Use is one occurrence of a cache name.
type Use struct {
	Name string
	File string
	// Line is the source line, or "cell;line" inside a notebook.
	Line string
}

// Scan walks root and collects the cache names of every .py, .ipynb and .go
// file. Directories named in exclude are skipped.
func Scan(root string, exclude []string) ([]Use, error) {
	if exclude == nil {
		exclude = DefaultExclude
	}

	var uses []Use
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && slices.Contains(exclude, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		var found []Use
		switch filepath.Ext(path) {
		case ".py":
			found, err = ScanPython(path)
		case ".ipynb":
			found, err = ScanNotebook(path)
		case ".go":
			if strings.HasSuffix(path, "_test.go") {
				return nil
			}
			found, err = ScanGo(path)
		default:
			return nil
		}
		if err != nil {
			return err
		}
		log.Debugf("%d cache names in %s", len(found), path)
		uses = append(uses, found...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return uses, nil
}

// ScanPython returns the names passed to @load_or_make in a Python file.
func ScanPython(path string) ([]Use, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var uses []Use
	for _, call := range decoratorCalls(tokenize(string(src)), PythonDecorator) {
		for _, name := range call.names() {
			uses = append(uses, Use{Name: name, File: path, Line: strconv.Itoa(call.line)})
		}
	}
	return uses, nil
}

// ScanNotebook returns the names passed to @load_or_make in the code cells of
// a notebook.
func ScanNotebook(path string) ([]Use, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: invalid notebook JSON", path)
	}

	var uses []Use
	for i, cell := range gjson.GetBytes(data, "cells").Array() {
		if cell.Get("cell_type").String() != "code" {
			continue
		}
		src := cellSource(cell.Get("source"))
		if !strings.Contains(src, "@"+PythonDecorator) {
			continue
		}
		for _, call := range decoratorCalls(tokenize(src), PythonDecorator) {
			for _, name := range call.names() {
				uses = append(uses, Use{Name: name, File: path, Line: fmt.Sprintf("%d;%d", i, call.line)})
			}
		}
	}
	return uses, nil
}

func cellSource(v gjson.Result) string {
	if !v.IsArray() {
		return v.String()
	}
	var sb strings.Builder
	for _, line := range v.Array() {
		sb.WriteString(line.String())
	}
	return sb.String()
}

// ScanGo returns the names passed to LoadOrMake in a Go file. The first
// argument must be a string slice literal, either inline or assigned to a
// variable earlier in the file.
func ScanGo(path string) ([]Use, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	literals := map[string]*ast.CompositeLit{}
	var uses []Use
	ast.Inspect(f, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.AssignStmt:
			for i, lhs := range node.Lhs {
				id, ok := lhs.(*ast.Ident)
				if !ok || i >= len(node.Rhs) {
					continue
				}
				if lit, ok := node.Rhs[i].(*ast.CompositeLit); ok {
					literals[id.Name] = lit
				}
			}
		case *ast.CallExpr:
			if !isLoadOrMake(node.Fun) || len(node.Args) == 0 {
				return true
			}
			var lit *ast.CompositeLit
			switch arg := node.Args[0].(type) {
			case *ast.CompositeLit:
				lit = arg
			case *ast.Ident:
				lit = literals[arg.Name]
			}
			if lit == nil {
				log.Warnf("%s: %s names are not a literal", fset.Position(node.Pos()), GoMethod)
				return true
			}
			line := strconv.Itoa(fset.Position(node.Pos()).Line)
			for _, name := range stringElts(lit) {
				uses = append(uses, Use{Name: name, File: path, Line: line})
			}
		}
		return true
	})
	return uses, nil
}

func isLoadOrMake(fun ast.Expr) bool {
	switch f := fun.(type) {
	case *ast.SelectorExpr:
		return f.Sel.Name == GoMethod
	case *ast.Ident:
		return f.Name == GoMethod
	}
	return false
}

func stringElts(lit *ast.CompositeLit) []string {
	var out []string
	for _, e := range lit.Elts {
		bl, ok := e.(*ast.BasicLit)
		if !ok || bl.Kind != token.STRING {
			continue
		}
		if s, err := strconv.Unquote(bl.Value); err == nil {
			out = append(out, s)
		}
	}
	return out
}

// Duplicate is a name seen a second time.
type Duplicate struct {
	First Use
	Again Use
}

func (d Duplicate) String() string {
	return strings.Join([]string{
		d.First.Name,
		fmt.Sprintf("    Already in  %s (%s).", d.First.File, d.First.Line),
		fmt.Sprintf("    Now used in %s (%s).", d.Again.File, d.Again.Line),
	}, "\n")
}

// DuplicateError lists every repeated name.
type DuplicateError struct {
	Duplicates []Duplicate
}

func (e *DuplicateError) Error() string {
	lines := make([]string, len(e.Duplicates))
	for i, d := range e.Duplicates {
		lines[i] = d.String()
	}
	return "Duplicate resource names in `" + GoMethod + "`\n" + strings.Join(lines, "\n")
}

// FindDuplicates returns a *DuplicateError if any name is used twice. Each
// repeat is reported against the first use.
func FindDuplicates(uses []Use) error {
	first := map[string]Use{}
	var dups []Duplicate
	for _, u := range uses {
		if f, ok := first[u.Name]; ok {
			dups = append(dups, Duplicate{First: f, Again: u})
			continue
		}
		first[u.Name] = u
	}
	if len(dups) > 0 {
		return &DuplicateError{Duplicates: dups}
	}
	return nil
}
