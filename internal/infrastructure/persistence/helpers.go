package persistence

import (
	"fmt"
	"strings"

	"github.com/agrisale/manager/internal/domain/shared"
	"gorm.io/gorm"
)

// scoped fences a query to one (owner, workspace) pair. Every repository
// query starts here; nothing reads across workspaces.
func scoped(db *gorm.DB, scope shared.Scope) *gorm.DB {
	return db.Where("owner_id = ? AND workspace_id = ?", scope.OwnerID, scope.WorkspaceID)
}

// orderClause builds a safe ORDER BY from the filter. Columns outside the
// allowlist fall back to created_at.
func orderClause(filter shared.Filter, allowed map[string]bool) string {
	column := "created_at"
	if allowed[filter.OrderBy] {
		column = filter.OrderBy
	}
	dir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s", column, dir)
}

// paginate applies page/page_size as offset/limit
func paginate(db *gorm.DB, filter shared.Filter) *gorm.DB {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	return db.Offset((page - 1) * pageSize).Limit(pageSize)
}

// isUniqueViolation reports whether the error is a unique index violation.
// The embedded engine surfaces these as plain errors with a fixed prefix.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
