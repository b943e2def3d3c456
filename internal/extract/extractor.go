package extract

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/maraichr/joingraph/pkg/models"
)

// Extractor processes one input unit (one SQL script). It owns the unit's
// direct-source map and resolution cache; nothing is shared across units.
type Extractor struct {
	source string
	text   string
	logger *slog.Logger

	// directSources maps a lowercased CTE name to the raw names its body
	// directly reads from (other CTEs or physical tables). Built once by the
	// collection pass, immutable afterwards.
	directSources map[string]map[string]struct{}

	// resolved memoizes transitive resolution by lowercased name. Once a key
	// is populated it is never recomputed.
	resolved map[string]map[string]struct{}

	// selectTables caches the direct table set of a SELECT node, keyed by
	// node pointer (the same SELECT reached through two paths computes once).
	selectTables map[*pg_query.SelectStmt]map[string]struct{}

	arena *selectArena
	ctes  []*pg_query.CommonTableExpr

	rows        []models.LineageRow
	parsedJoins int
	regexJoins  int
}

// New builds an Extractor for one unit. The baseline join count is computed
// here, on the placeholder-stripped text, before any parsing happens.
func New(source, sqlText string, logger *slog.Logger) *Extractor {
	text := StripPlaceholders(sqlText)
	return &Extractor{
		source:        source,
		text:          text,
		logger:        logger,
		directSources: make(map[string]map[string]struct{}),
		resolved:      make(map[string]map[string]struct{}),
		selectTables:  make(map[*pg_query.SelectStmt]map[string]struct{}),
		regexJoins:    CountJoins(text),
	}
}

// Extract runs the unit through parse, source collection, and join
// collection. Parse failures are never fatal: a statement that fails to parse
// contributes zero rows and zero structural joins, and the rest of the unit
// proceeds.
func (e *Extractor) Extract() *models.UnitResult {
	stmts, skipped := parseStatements(e.text)
	if skipped > 0 {
		e.logger.Warn("statements skipped during parse",
			slog.String("source", e.source),
			slog.Int("skipped", skipped))
	}

	coll := newCollector()
	for _, stmt := range stmts {
		coll.walkStatement(stmt.Stmt)
	}
	e.arena = coll.arena
	e.ctes = coll.ctes

	e.collectDirectSources()
	e.collectJoins()

	return &models.UnitResult{
		Source:          e.source,
		Rows:            e.rows,
		ParsedJoinCount: e.parsedJoins,
		RegexJoinCount:  e.regexJoins,
	}
}

// collectDirectSources records, for every CTE in the unit, the raw names its
// body directly reads from (FROM relation plus every join arm, one level into
// subqueries).
func (e *Extractor) collectDirectSources() {
	for _, cte := range e.ctes {
		name := strings.ToLower(cte.Ctename)
		if name == "" || cte.Ctequery == nil {
			continue
		}
		sources := e.tablesFromSelect(cte.Ctequery.GetSelectStmt())
		if len(sources) == 0 {
			continue
		}
		if e.directSources[name] == nil {
			e.directSources[name] = make(map[string]struct{})
		}
		for t := range sources {
			e.directSources[name][t] = struct{}{}
		}
	}
}

// tablesFromSelect returns the set of raw names a SELECT reads from: its FROM
// relation and each join arm. Subqueries contribute their own table set,
// computed by the same rule. Cached per node.
func (e *Extractor) tablesFromSelect(sel *pg_query.SelectStmt) map[string]struct{} {
	if sel == nil {
		return nil
	}
	if cached, ok := e.selectTables[sel]; ok {
		return cached
	}

	tables := make(map[string]struct{})
	// Populate the cache entry first so a self-referential subquery chain
	// terminates instead of recursing.
	e.selectTables[sel] = tables

	for _, item := range sel.FromClause {
		for t := range e.tablesFromRelation(item) {
			tables[t] = struct{}{}
		}
	}
	for t := range e.tablesFromSelect(sel.Larg) {
		tables[t] = struct{}{}
	}
	for t := range e.tablesFromSelect(sel.Rarg) {
		tables[t] = struct{}{}
	}
	return tables
}

// tablesFromRelation resolves one FROM-clause item to raw names. A join
// contributes both of its sides; a subquery contributes its inner SELECT's
// table set.
func (e *Extractor) tablesFromRelation(node *pg_query.Node) map[string]struct{} {
	if node == nil {
		return nil
	}
	switch {
	case node.GetRangeVar() != nil:
		return map[string]struct{}{node.GetRangeVar().Relname: {}}
	case node.GetJoinExpr() != nil:
		j := node.GetJoinExpr()
		tables := make(map[string]struct{})
		for t := range e.tablesFromRelation(j.Larg) {
			tables[t] = struct{}{}
		}
		for t := range e.tablesFromRelation(j.Rarg) {
			tables[t] = struct{}{}
		}
		return tables
	case node.GetRangeSubselect() != nil:
		sub := node.GetRangeSubselect()
		if sub.Subquery == nil {
			return nil
		}
		return e.tablesFromSelect(sub.Subquery.GetSelectStmt())
	}
	return nil
}

// collectJoins visits every distinct SELECT in arena order exactly once and
// emits one lineage row per join arm.
func (e *Extractor) collectJoins() {
	for _, sel := range e.arena.selects {
		selectID := e.arena.ids[sel]
		aliasMap := e.buildAliasMap(sel)

		for _, item := range sel.FromClause {
			e.collectJoinArms(item, selectID, aliasMap)
		}
	}
}

// collectJoinArms walks a FROM-clause item and emits a row for each join
// node found, left side first so arms come out in source order. It never
// descends into subqueries; their joins belong to their own SELECT.
func (e *Extractor) collectJoinArms(node *pg_query.Node, selectID int, aliasMap map[string]string) {
	j := node.GetJoinExpr()
	if j == nil {
		return
	}

	e.collectJoinArms(j.Larg, selectID, aliasMap)
	if j.Rarg.GetJoinExpr() != nil {
		// Parenthesized join on the right side: its arms are arms of this
		// SELECT too.
		e.collectJoinArms(j.Rarg, selectID, aliasMap)
	}

	// One increment per join arm, no matter how many physical tables the
	// resolution expands to and whether the target resolved at all.
	e.parsedJoins++

	rawRef, tables := e.resolveJoinTarget(j.Rarg)
	e.rows = append(e.rows, models.LineageRow{
		Source:    e.source,
		SelectID:  selectID,
		JoinType:  joinTypeOf(j.Jointype),
		RawRef:    rawRef,
		Tables:    sortedTables(tables),
		Condition: e.conditionText(j.Quals, aliasMap),
	})
}

// resolveJoinTarget resolves the right-hand side of a join arm down to
// physical tables. For a plain relation the raw reference is its name; for a
// subquery it is the subquery alias, with the inner table set resolved
// name by name.
func (e *Extractor) resolveJoinTarget(node *pg_query.Node) (string, map[string]struct{}) {
	if node == nil {
		return "", nil
	}
	switch {
	case node.GetRangeVar() != nil:
		name := node.GetRangeVar().Relname
		return name, e.resolve(name)
	case node.GetRangeSubselect() != nil:
		sub := node.GetRangeSubselect()
		rawRef := ""
		if sub.Alias != nil {
			rawRef = sub.Alias.Aliasname
		}
		var inner map[string]struct{}
		if sub.Subquery != nil {
			inner = e.tablesFromSelect(sub.Subquery.GetSelectStmt())
		}
		return rawRef, e.resolveAll(inner)
	case node.GetJoinExpr() != nil:
		return "", e.resolveAll(e.tablesFromRelation(node))
	}
	return "", nil
}

// buildAliasMap maps each local alias (or bare relation name) in a SELECT's
// FROM clause and join arms to its canonical relation name. Scope is this one
// SELECT; resolution to physical tables happens on canonical names, the alias
// map only annotates output.
func (e *Extractor) buildAliasMap(sel *pg_query.SelectStmt) map[string]string {
	aliasMap := make(map[string]string)
	for _, item := range sel.FromClause {
		e.registerAliases(item, aliasMap)
	}
	return aliasMap
}

func (e *Extractor) registerAliases(node *pg_query.Node, aliasMap map[string]string) {
	if node == nil {
		return
	}
	switch {
	case node.GetRangeVar() != nil:
		rv := node.GetRangeVar()
		aliasMap[strings.ToLower(rv.Relname)] = rv.Relname
		if rv.Alias != nil && rv.Alias.Aliasname != "" {
			aliasMap[strings.ToLower(rv.Alias.Aliasname)] = rv.Relname
		}
	case node.GetJoinExpr() != nil:
		j := node.GetJoinExpr()
		e.registerAliases(j.Larg, aliasMap)
		e.registerAliases(j.Rarg, aliasMap)
	case node.GetRangeSubselect() != nil:
		sub := node.GetRangeSubselect()
		if sub.Alias != nil && sub.Alias.Aliasname != "" {
			// A derived table has no single canonical relation; the alias
			// stands for itself.
			aliasMap[strings.ToLower(sub.Alias.Aliasname)] = sub.Alias.Aliasname
		}
	}
}

// conditionText renders the equality conditions of an ON clause, AND-chains
// flattened, aliases rewritten to canonical relation names. Conditions the
// walker cannot shape as column = column are left out; an empty string means
// the ON clause had no recognizable equality.
func (e *Extractor) conditionText(quals *pg_query.Node, aliasMap map[string]string) string {
	var parts []string
	for _, cond := range flattenAnd(quals) {
		ae := cond.GetAExpr()
		if ae == nil || ae.Kind != pg_query.A_Expr_Kind_AEXPR_OP || operatorName(ae) != "=" {
			continue
		}
		leftRef, leftCol, ok := columnParts(ae.Lexpr)
		if !ok {
			continue
		}
		rightRef, rightCol, ok := columnParts(ae.Rexpr)
		if !ok {
			continue
		}
		left := canonicalRef(leftRef, aliasMap)
		right := canonicalRef(rightRef, aliasMap)
		parts = append(parts, fmt.Sprintf("%s.%s = %s.%s", left, leftCol, right, rightCol))
	}
	return strings.Join(parts, " AND ")
}

// flattenAnd splits a boolean AND chain into its leaf conditions.
func flattenAnd(node *pg_query.Node) []*pg_query.Node {
	if node == nil {
		return nil
	}
	if be := node.GetBoolExpr(); be != nil && be.Boolop == pg_query.BoolExprType_AND_EXPR {
		var conds []*pg_query.Node
		for _, arg := range be.Args {
			conds = append(conds, flattenAnd(arg)...)
		}
		return conds
	}
	return []*pg_query.Node{node}
}

func operatorName(ae *pg_query.A_Expr) string {
	if len(ae.Name) == 0 {
		return ""
	}
	if s := ae.Name[0].GetString_(); s != nil {
		return s.Sval
	}
	return ""
}

// columnParts splits a column reference into its qualifier and column name.
// Returns false for anything that is not a plain column reference.
func columnParts(node *pg_query.Node) (ref, column string, ok bool) {
	if node == nil {
		return "", "", false
	}
	cr := node.GetColumnRef()
	if cr == nil {
		return "", "", false
	}
	var parts []string
	for _, field := range cr.Fields {
		s := field.GetString_()
		if s == nil {
			return "", "", false // a.* and friends
		}
		parts = append(parts, s.Sval)
	}
	switch len(parts) {
	case 0:
		return "", "", false
	case 1:
		return "", parts[0], true
	default:
		return parts[len(parts)-2], parts[len(parts)-1], true
	}
}

func canonicalRef(ref string, aliasMap map[string]string) string {
	if canonical, ok := aliasMap[strings.ToLower(ref)]; ok {
		return canonical
	}
	return ref
}

func joinTypeOf(jt pg_query.JoinType) models.JoinType {
	switch jt {
	case pg_query.JoinType_JOIN_LEFT:
		return models.JoinTypeLeft
	case pg_query.JoinType_JOIN_RIGHT:
		return models.JoinTypeRight
	case pg_query.JoinType_JOIN_FULL:
		return models.JoinTypeFull
	default:
		return models.JoinTypeInner
	}
}

func sortedTables(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	tables := make([]string, 0, len(set))
	for t := range set {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables
}
