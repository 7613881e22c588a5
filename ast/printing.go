package ast

import (
	"strings"

	"github.com/wdamron/modal/types"
)

// ExprString prints e in a compact surface syntax.
func ExprString(e Expr) string {
	var sb strings.Builder
	exprString(&sb, false, e)
	return sb.String()
}

func exprString(sb *strings.Builder, simple bool, e Expr) {
	switch et := e.(type) {
	case *Literal:
		sb.WriteString(et.Syntax)

	case *Var:
		sb.WriteString(et.Name)

	case *Call:
		exprString(sb, true, et.Func)
		sb.WriteByte('(')
		for i, arg := range et.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			exprString(sb, false, arg)
		}
		sb.WriteByte(')')

	case *Func:
		if simple {
			sb.WriteByte('(')
		}
		if et.Locality == types.Local {
			sb.WriteString("local_ ")
		}
		sb.WriteString("fun")
		for _, arg := range et.ArgNames {
			sb.WriteByte(' ')
			sb.WriteString(arg)
		}
		sb.WriteString(" -> ")
		exprString(sb, false, et.Body)
		if simple {
			sb.WriteByte(')')
		}

	case *Let:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString("let ")
		sb.WriteString(et.Var)
		if !et.Annot.IsEmpty() {
			sb.WriteString(" @ ")
			sb.WriteString(et.Annot.String())
		}
		sb.WriteString(" = ")
		exprString(sb, false, et.Value)
		sb.WriteString(" in ")
		exprString(sb, false, et.Body)
		if simple {
			sb.WriteByte(')')
		}

	case *If:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString("if ")
		exprString(sb, false, et.Cond)
		sb.WriteString(" then ")
		exprString(sb, false, et.Then)
		sb.WriteString(" else ")
		exprString(sb, false, et.Else)
		if simple {
			sb.WriteByte(')')
		}

	case *Loop:
		block(sb, "loop", et.Body)

	case *Alloc:
		if et.Locality == types.Local {
			sb.WriteString("stack_ ")
		}
		sb.WriteByte('{')
		for i, field := range et.Fields {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(field.Label)
			sb.WriteString(" = ")
			exprString(sb, false, field.Value)
		}
		sb.WriteByte('}')

	case *Select:
		exprString(sb, true, et.Record)
		sb.WriteByte('.')
		sb.WriteString(et.Label)

	case *Assign:
		exprString(sb, true, et.Record)
		sb.WriteByte('.')
		sb.WriteString(et.Label)
		sb.WriteString(" <- ")
		exprString(sb, false, et.Value)

	case *Region:
		block(sb, "region", et.Body)

	case *Exclave:
		block(sb, "exclave", et.Body)

	case *Spawn:
		sb.WriteString("spawn ")
		exprString(sb, true, et.Func)

	case *CellCreate:
		sb.WriteString("Cell.create[")
		sb.WriteString(types.TypeString(et.Key))
		sb.WriteString("](")
		exprString(sb, false, et.Payload)
		sb.WriteByte(')')

	case *CellMap:
		cellOp(sb, "Cell.map", et.Cell, et.Key, et.Func)

	case *CellExtract:
		cellOp(sb, "Cell.extract", et.Cell, et.Key, et.Func)

	case nil:
		sb.WriteString("<nil>")
	}
}

func block(sb *strings.Builder, name string, body Expr) {
	sb.WriteString(name)
	sb.WriteString(" { ")
	exprString(sb, false, body)
	sb.WriteString(" }")
}

func cellOp(sb *strings.Builder, name string, args ...Expr) {
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		exprString(sb, false, arg)
	}
	sb.WriteByte(')')
}
