package model

// Privilege codes checked by the API.
const (
	PrivUserView   = "user:view"
	PrivUserCreate = "user:create"
	PrivUserUpdate = "user:update"
	PrivUserDelete = "user:delete"

	PrivCompanyUpdate = "company:update"

	PrivCategoryView   = "category:view"
	PrivCategoryManage = "category:manage"

	PrivProductView   = "product:view"
	PrivProductCreate = "product:create"
	PrivProductUpdate = "product:update"
	PrivProductDelete = "product:delete"

	PrivInventoryView   = "inventory:view"
	PrivInventoryAdjust = "inventory:adjust"

	PrivTransactionView   = "transaction:view"
	PrivTransactionCreate = "transaction:create"

	PrivReportView = "report:view"
)

// AllPrivileges in a stable order.
var AllPrivileges = []string{
	PrivUserView, PrivUserCreate, PrivUserUpdate, PrivUserDelete,
	PrivCompanyUpdate,
	PrivCategoryView, PrivCategoryManage,
	PrivProductView, PrivProductCreate, PrivProductUpdate, PrivProductDelete,
	PrivInventoryView, PrivInventoryAdjust,
	PrivTransactionView, PrivTransactionCreate,
	PrivReportView,
}

// RolePrivileges is the static role to privilege table.
var RolePrivileges = map[Role][]string{
	RolePemilik: AllPrivileges,
	RoleAdmin:   without(AllPrivileges, PrivCompanyUpdate),
	RoleManajer: {
		PrivUserView,
		PrivCategoryView, PrivCategoryManage,
		PrivProductView, PrivProductCreate, PrivProductUpdate, PrivProductDelete,
		PrivInventoryView, PrivInventoryAdjust,
		PrivTransactionView, PrivTransactionCreate,
		PrivReportView,
	},
	RoleAdminGudang: {
		PrivCategoryView,
		PrivProductView,
		PrivInventoryView, PrivInventoryAdjust,
	},
	RoleUser: {
		PrivCategoryView,
		PrivProductView,
		PrivInventoryView,
		PrivTransactionView, PrivTransactionCreate,
	},
}

// Privileges returns the privilege codes granted to r. Unknown roles get none.
func (r Role) Privileges() []string {
	return RolePrivileges[r]
}

// Can reports whether r grants the privilege code.
func (r Role) Can(code string) bool {
	for _, p := range RolePrivileges[r] {
		if p == code {
			return true
		}
	}
	return false
}

func without(all []string, drop ...string) []string {
	out := make([]string, 0, len(all))
	for _, p := range all {
		keep := true
		for _, d := range drop {
			if p == d {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, p)
		}
	}
	return out
}
