package extract

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// parse.go wraps pg_query statement parsing and the single combined walk over
// the resulting trees. The walk collects, in source order, every SELECT node
// (interned into an arena so each occurrence has a stable integer identity)
// and every CTE definition.

// selectArena assigns an integer id to each distinct SELECT node at
// collection time. De-duplication is by node pointer, never by structure:
// two textually identical SELECTs in different CTEs get different ids.
type selectArena struct {
	selects []*pg_query.SelectStmt
	ids     map[*pg_query.SelectStmt]int
}

func newSelectArena() *selectArena {
	return &selectArena{ids: make(map[*pg_query.SelectStmt]int)}
}

// intern returns the id for a SELECT node, assigning the next index on first
// sight. The second return reports whether the node was new.
func (a *selectArena) intern(s *pg_query.SelectStmt) (int, bool) {
	if id, ok := a.ids[s]; ok {
		return id, false
	}
	id := len(a.selects)
	a.selects = append(a.selects, s)
	a.ids[s] = id
	return id, true
}

// parseStatements parses one unit into statement trees. The whole text is
// tried first; if that fails and the unit looks like a bare WITH chain, a
// patched copy with a trailing SELECT is tried; finally the unit is split
// into individual statements and each is parsed on its own, skipping the ones
// that fail. Returns the trees and the number of skipped statements.
func parseStatements(sqlText string) ([]*pg_query.RawStmt, int) {
	if res, err := pg_query.Parse(sqlText); err == nil {
		return res.Stmts, 0
	}

	if patched := patchCTEOnly(sqlText); patched != "" {
		if res, err := pg_query.Parse(patched); err == nil {
			return res.Stmts, 0
		}
	}

	pieces, err := pg_query.SplitWithScanner(sqlText, true)
	if err != nil {
		// Not even splittable; the whole unit degrades to zero trees.
		return nil, 1
	}

	var stmts []*pg_query.RawStmt
	skipped := 0
	for _, piece := range pieces {
		res, err := pg_query.Parse(piece)
		if err != nil {
			skipped++
			continue
		}
		stmts = append(stmts, res.Stmts...)
	}
	return stmts, skipped
}

// collector walks statement trees once, filling the arena and the CTE list.
type collector struct {
	arena *selectArena
	ctes  []*pg_query.CommonTableExpr
}

func newCollector() *collector {
	return &collector{arena: newSelectArena()}
}

func (c *collector) walkStatement(node *pg_query.Node) {
	if node == nil {
		return
	}
	switch {
	case node.GetSelectStmt() != nil:
		c.walkSelect(node.GetSelectStmt())
	case node.GetInsertStmt() != nil:
		stmt := node.GetInsertStmt()
		c.walkWith(stmt.WithClause)
		c.walkStatement(stmt.SelectStmt)
	case node.GetUpdateStmt() != nil:
		stmt := node.GetUpdateStmt()
		c.walkWith(stmt.WithClause)
		for _, item := range stmt.FromClause {
			c.walkFromItem(item)
		}
		c.walkExpr(stmt.WhereClause)
	case node.GetDeleteStmt() != nil:
		stmt := node.GetDeleteStmt()
		c.walkWith(stmt.WithClause)
		for _, item := range stmt.UsingClause {
			c.walkFromItem(item)
		}
		c.walkExpr(stmt.WhereClause)
	case node.GetCreateTableAsStmt() != nil:
		c.walkStatement(node.GetCreateTableAsStmt().Query)
	case node.GetViewStmt() != nil:
		c.walkStatement(node.GetViewStmt().Query)
	case node.GetExplainStmt() != nil:
		c.walkStatement(node.GetExplainStmt().Query)
	}
}

func (c *collector) walkSelect(sel *pg_query.SelectStmt) {
	if sel == nil {
		return
	}
	if _, isNew := c.arena.intern(sel); !isNew {
		return
	}

	c.walkWith(sel.WithClause)

	for _, target := range sel.TargetList {
		if rt := target.GetResTarget(); rt != nil {
			c.walkExpr(rt.Val)
		}
	}
	for _, item := range sel.FromClause {
		c.walkFromItem(item)
	}
	c.walkExpr(sel.WhereClause)
	c.walkExpr(sel.HavingClause)
	for _, sort := range sel.SortClause {
		if sb := sort.GetSortBy(); sb != nil {
			c.walkExpr(sb.Node)
		}
	}

	// Set operations (UNION/INTERSECT/EXCEPT)
	c.walkSelect(sel.Larg)
	c.walkSelect(sel.Rarg)
}

func (c *collector) walkWith(with *pg_query.WithClause) {
	if with == nil {
		return
	}
	for _, item := range with.Ctes {
		cte := item.GetCommonTableExpr()
		if cte == nil {
			continue
		}
		c.ctes = append(c.ctes, cte)
		c.walkStatement(cte.Ctequery)
	}
}

func (c *collector) walkFromItem(node *pg_query.Node) {
	if node == nil {
		return
	}
	switch {
	case node.GetJoinExpr() != nil:
		j := node.GetJoinExpr()
		c.walkFromItem(j.Larg)
		c.walkFromItem(j.Rarg)
		c.walkExpr(j.Quals)
	case node.GetRangeSubselect() != nil:
		sub := node.GetRangeSubselect()
		if sub.Subquery != nil {
			c.walkSelect(sub.Subquery.GetSelectStmt())
		}
	case node.GetRangeFunction() != nil:
		for _, fn := range node.GetRangeFunction().Functions {
			c.walkExpr(fn)
		}
	}
	// RangeVar is a leaf.
}

// walkExpr descends into scalar expressions looking for sub-selects (SubLink)
// so that SELECTs inside WHERE EXISTS / IN / scalar subqueries are collected
// like any other.
func (c *collector) walkExpr(node *pg_query.Node) {
	if node == nil {
		return
	}
	switch {
	case node.GetSubLink() != nil:
		sl := node.GetSubLink()
		c.walkExpr(sl.Testexpr)
		if sl.Subselect != nil {
			c.walkSelect(sl.Subselect.GetSelectStmt())
		}
	case node.GetBoolExpr() != nil:
		for _, arg := range node.GetBoolExpr().Args {
			c.walkExpr(arg)
		}
	case node.GetAExpr() != nil:
		ae := node.GetAExpr()
		c.walkExpr(ae.Lexpr)
		c.walkExpr(ae.Rexpr)
	case node.GetFuncCall() != nil:
		for _, arg := range node.GetFuncCall().Args {
			c.walkExpr(arg)
		}
	case node.GetTypeCast() != nil:
		c.walkExpr(node.GetTypeCast().Arg)
	case node.GetCaseExpr() != nil:
		ce := node.GetCaseExpr()
		c.walkExpr(ce.Arg)
		for _, when := range ce.Args {
			if cw := when.GetCaseWhen(); cw != nil {
				c.walkExpr(cw.Expr)
				c.walkExpr(cw.Result)
			}
		}
		c.walkExpr(ce.Defresult)
	case node.GetCoalesceExpr() != nil:
		for _, arg := range node.GetCoalesceExpr().Args {
			c.walkExpr(arg)
		}
	case node.GetMinMaxExpr() != nil:
		for _, arg := range node.GetMinMaxExpr().Args {
			c.walkExpr(arg)
		}
	case node.GetRowExpr() != nil:
		for _, arg := range node.GetRowExpr().Args {
			c.walkExpr(arg)
		}
	case node.GetNullTest() != nil:
		c.walkExpr(node.GetNullTest().Arg)
	case node.GetList() != nil:
		for _, item := range node.GetList().Items {
			c.walkExpr(item)
		}
	}
}
