package main

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const zapPath = "go.uber.org/zap"

var secretKeys = []string{"password", "secret", "token"}

// SecretAnalyzer reports zap field constructors whose key names a credential.
var SecretAnalyzer = &analysis.Analyzer{
	Name:     "secretlint",
	Doc:      "reports zap fields keyed password, token or secret",
	Run:      runSecret,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func runSecret(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		if len(call.Args) == 0 {
			return
		}

		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return
		}
		ident, ok := sel.X.(*ast.Ident)
		if !ok {
			return
		}
		pkg, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
		if !ok || pkg.Imported().Path() != zapPath {
			return
		}

		lit, ok := call.Args[0].(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return
		}
		key, err := strconv.Unquote(lit.Value)
		if err != nil {
			return
		}

		lower := strings.ToLower(key)
		for _, s := range secretKeys {
			if strings.Contains(lower, s) {
				pass.Reportf(lit.Pos(), "zap field %q may leak a credential", key)
				return
			}
		}
	})

	return nil, nil
}
