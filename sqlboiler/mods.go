package sqlboiler

import (
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"

	"github.com/nrfta/records-paging/query"
)

// QueryMods converts builder state into mods for an offset page:
//
//	conditions → qm.Where(fragment, params...)
//	sort       → qm.OrderBy("sort dir, id dir")
//	limit      → qm.Limit(n)
//	offset     → qm.Offset(n), omitted when zero
//
// The mods carry no FROM clause; apply them to a generated model query:
//
//	reagents, err := models.Reagents(sqlboiler.QueryMods(b, 100)...).All(ctx, db)
func QueryMods(b *query.Builder, offset int) []qm.QueryMod {
	mods := whereMods(b)

	_, order := b.SortColumn()
	mods = append(mods, qm.OrderBy(orderByClause(b.SortExpr(), order)), qm.Limit(b.PageLimit()))
	if offset > 0 {
		mods = append(mods, qm.Offset(offset))
	}
	return mods
}

// KeysetQueryMods converts builder state into mods for a keyset page: the
// filter conditions, the keyset predicate, ORDER BY in scan order and a
// limit of one row more than the page. Rows fetched for query.Prev arrive in
// inverted order, exactly as with Builder.BuildCTE.
func KeysetQueryMods(b *query.Builder, dir query.Direction, desc bool) []qm.QueryMod {
	mods := whereMods(b)

	if fragment, params := b.Keyset(); fragment != "" {
		mods = append(mods, rawWhereClause(fragment, toArgs(params)))
	}

	mods = append(mods,
		qm.OrderBy(orderByClause(b.SortExpr(), query.ScanOrder(desc, dir))),
		qm.Limit(b.PageLimit()+1),
	)
	return mods
}

func whereMods(b *query.Builder) []qm.QueryMod {
	conds := b.Conditions()
	mods := make([]qm.QueryMod, 0, len(conds)+3)
	for _, c := range conds {
		mods = append(mods, qm.Where(c.Fragment, toArgs(c.Params)...))
	}
	return mods
}

// rawWhereClause appends a WHERE fragment verbatim. qm.Where would do for
// most fragments; the keyset predicate goes through AppendWhere so its
// nested parentheses are kept as built.
func rawWhereClause(clause string, args []any) qm.QueryMod {
	return qm.QueryModFunc(func(q *queries.Query) {
		queries.AppendWhere(q, clause, args...)
	})
}

func orderByClause(col, order string) string {
	if col == "id" {
		return "id " + order
	}
	return col + " " + order + ", id " + order
}

func toArgs(params []string) []any {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p
	}
	return args
}
