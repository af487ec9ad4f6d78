package postgres

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

const taskColumns = `id, title, description, status, priority, due_date, owner_id, created_at, updated_at`

// priorityRank mirrors domain.TaskPriority.Rank.
const priorityRank = `CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 ELSE 0 END`

var sortExpressions = map[domain.SortField]string{
	domain.SortByCreatedAt: "created_at",
	domain.SortByUpdatedAt: "updated_at",
	domain.SortByTitle:     "title",
	domain.SortByPriority:  priorityRank,
	domain.SortByDueDate:   "due_date",
}

// argList accumulates positional parameters and hands out their placeholders.
type argList []any

func (a *argList) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// whereClause renders the owner scope plus any filters.
func whereClause(ownerID uuid.UUID, filter domain.TaskFilter, args *argList) string {
	conds := []string{"owner_id = " + args.add(ownerID)}

	if filter.Status != nil {
		conds = append(conds, "status = "+args.add(string(*filter.Status)))
	}
	if filter.Priority != nil {
		conds = append(conds, "priority = "+args.add(string(*filter.Priority)))
	}
	if filter.Search != "" {
		p := args.add("%" + escapeLike(filter.Search) + "%")
		conds = append(conds, fmt.Sprintf(`(title ILIKE %s ESCAPE '\' OR description ILIKE %s ESCAPE '\')`, p, p))
	}

	return "WHERE " + strings.Join(conds, " AND ")
}

// orderClause sorts by the requested column with id as a stable tie-break.
// Missing due dates always sort last.
func orderClause(q domain.TaskQuery) string {
	expr, ok := sortExpressions[q.SortBy]
	if !ok {
		expr = sortExpressions[domain.DefaultSortField]
	}
	dir := "DESC"
	if q.SortOrder == domain.SortAsc {
		dir = "ASC"
	}
	if q.SortBy == domain.SortByDueDate {
		dir += " NULLS LAST"
	}
	return fmt.Sprintf("ORDER BY %s %s, id ASC", expr, dir)
}

// buildListQuery renders the page query for a normalized TaskQuery.
func buildListQuery(ownerID uuid.UUID, q domain.TaskQuery) (string, []any) {
	var args argList
	where := whereClause(ownerID, q.Filter, &args)
	order := orderClause(q)
	limit := args.add(q.Limit)
	offset := args.add(q.Offset())

	query := fmt.Sprintf("SELECT %s FROM tasks %s %s LIMIT %s OFFSET %s",
		taskColumns, where, order, limit, offset)
	return query, args
}

// buildCountQuery renders the total-count query for filter.
func buildCountQuery(ownerID uuid.UUID, filter domain.TaskFilter) (string, []any) {
	var args argList
	where := whereClause(ownerID, filter, &args)
	return "SELECT COUNT(*) FROM tasks " + where, args
}

// buildUpdateQuery renders a single owner-scoped UPDATE ... RETURNING for patch.
// updated_at never moves before created_at.
func buildUpdateQuery(id, ownerID uuid.UUID, patch domain.TaskPatch, now any) (string, []any) {
	var args argList
	cols := patch.Columns()

	sets := make([]string, 0, len(cols)+1)
	for _, col := range patchColumnOrder {
		if v, ok := cols[col]; ok {
			sets = append(sets, col+" = "+args.add(v))
		}
	}
	sets = append(sets, "updated_at = GREATEST("+args.add(now)+", created_at)")

	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = %s AND owner_id = %s RETURNING %s",
		strings.Join(sets, ", "), args.add(id), args.add(ownerID), taskColumns)
	return query, args
}

var patchColumnOrder = []string{"title", "description", "status", "priority", "due_date"}

// escapeLike makes LIKE metacharacters in s match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
