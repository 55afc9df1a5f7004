// utils/rbac.go
package utils

import (
	"stockpro-backend/models"
)

type Operation string

const (
	OpRead  Operation = "read"
	OpWrite Operation = "write"
)

type Resource string

const (
	ResourceProduct           Resource = "product"
	ResourceCategory          Resource = "category"
	ResourceSupplier          Resource = "supplier"
	ResourceClient            Resource = "client"
	ResourceUser              Resource = "user"
	ResourceStockMovement     Resource = "stock_movement"
	ResourceCreditTransaction Resource = "credit_transaction"
	ResourceSale              Resource = "sale"
	ResourceInvoice           Resource = "invoice"
	ResourceSubscription      Resource = "subscription"
	ResourceNotification      Resource = "notification"
	ResourceAlertRule         Resource = "alert_rule"
	ResourceDashboard         Resource = "dashboard"
	ResourceBusiness          Resource = "business"
)

type roleSet map[models.Role]bool

func roles(rs ...models.Role) roleSet {
	set := make(roleSet, len(rs))
	for _, r := range rs {
		set[r] = true
	}
	return set
}

// policy is the per-resource authorization table. The asymmetry on product
// (admins may read but only the business owner role writes) is deliberate;
// each resource carries its own table rather than a global role ranking.
var policy = map[Resource]map[Operation]roleSet{
	ResourceProduct: {
		OpRead:  roles(models.RoleSuperAdmin, models.RoleBusinessAdmin),
		OpWrite: roles(models.RoleBusinessAdmin),
	},
	ResourceCategory: {
		OpRead:  roles(models.RoleSuperAdmin, models.RoleBusinessAdmin, models.RoleInventoryManager),
		OpWrite: roles(models.RoleBusinessAdmin),
	},
	ResourceSupplier: {
		OpRead:  roles(models.RoleSuperAdmin, models.RoleBusinessAdmin, models.RoleInventoryManager),
		OpWrite: roles(models.RoleBusinessAdmin),
	},
	ResourceClient: {
		OpRead:  roles(models.RoleSuperAdmin, models.RoleBusinessAdmin, models.RoleCashier),
		OpWrite: roles(models.RoleBusinessAdmin),
	},
	ResourceUser: {
		OpRead:  roles(models.RoleSuperAdmin, models.RoleBusinessAdmin),
		OpWrite: roles(models.RoleBusinessAdmin),
	},
	ResourceStockMovement: {
		OpRead:  roles(models.RoleSuperAdmin, models.RoleBusinessAdmin, models.RoleInventoryManager),
		OpWrite: roles(models.RoleBusinessAdmin, models.RoleInventoryManager),
	},
	ResourceCreditTransaction: {
		OpRead:  roles(models.RoleSuperAdmin, models.RoleBusinessAdmin, models.RoleCashier),
		OpWrite: roles(models.RoleBusinessAdmin, models.RoleCashier),
	},
	ResourceSale: {
		OpRead:  roles(models.RoleSuperAdmin, models.RoleBusinessAdmin, models.RoleCashier),
		OpWrite: roles(models.RoleBusinessAdmin, models.RoleCashier),
	},
	ResourceInvoice: {
		OpRead:  roles(models.RoleSuperAdmin, models.RoleBusinessAdmin, models.RoleCashier),
		OpWrite: roles(models.RoleBusinessAdmin),
	},
	ResourceSubscription: {
		OpRead:  roles(models.RoleSuperAdmin, models.RoleBusinessAdmin),
		OpWrite: roles(models.RoleBusinessAdmin),
	},
	ResourceNotification: {
		OpRead:  roles(models.RoleSuperAdmin, models.RoleBusinessAdmin, models.RoleInventoryManager, models.RoleCashier),
		OpWrite: roles(models.RoleSuperAdmin, models.RoleBusinessAdmin, models.RoleInventoryManager, models.RoleCashier),
	},
	ResourceAlertRule: {
		OpRead:  roles(models.RoleSuperAdmin, models.RoleBusinessAdmin, models.RoleInventoryManager),
		OpWrite: roles(models.RoleBusinessAdmin),
	},
	ResourceDashboard: {
		OpRead: roles(models.RoleSuperAdmin, models.RoleBusinessAdmin),
	},
	ResourceBusiness: {
		OpRead:  roles(models.RoleSuperAdmin, models.RoleBusinessAdmin),
		OpWrite: roles(models.RoleBusinessAdmin),
	},
}

// Allowed answers the authorization question for one (role, operation,
// resource) triple. Unknown roles, operations and resources are denied.
func Allowed(role models.Role, op Operation, res Resource) bool {
	if !role.Valid() {
		return false
	}
	table, ok := policy[res]
	if !ok {
		return false
	}
	set, ok := table[op]
	if !ok {
		return false
	}
	return set[role]
}
