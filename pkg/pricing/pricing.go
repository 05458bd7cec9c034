// Package pricing holds the cost of every credit-charged action in one
// table, keyed by action label. Call sites never carry amounts themselves.
package pricing

import (
	"errors"
	"fmt"

	"github.com/ficore-africa/ficore-credits/pkg/models"
)

// Action labels charged against the credit ledger. The label is recorded on
// every transaction for auditing.
const (
	CreateGroceryList        = "create_grocery_list"
	SaveGroceryList          = "save_grocery_list"
	DeleteGroceryList        = "delete_grocery_list"
	ExportGroceryListPDF     = "export_grocery_list_pdf"
	AddGroceryItem           = "add_grocery_item"
	UpdateGroceryItem        = "update_grocery_item"
	ApproveGrocerySuggestion = "approve_grocery_suggestion"
	CreateMealPlan           = "create_meal_plan"
	AddMealPlanIngredient    = "add_meal_plan_ingredient"
	AddItemFromMealPlan      = "add_grocery_item_from_meal_plan"
	GenerateReport           = "generate_report"
)

// ActionTopUp labels top-up transactions in the ledger. Top-ups credit the
// balance and are never charged, so the label has no entry in the cost table.
const ActionTopUp = "top_up"

// ErrUnknownAction is returned when an action label has no configured cost.
// A guard hitting this is a programming error, not a user-facing condition.
var ErrUnknownAction = errors.New("no cost configured for action")

// Table maps action labels to the credits they cost.
type Table map[string]models.Credits

// Default is the standard cost table. Amounts are hundredths of a credit.
func Default() Table {
	return Table{
		CreateGroceryList:        50,
		SaveGroceryList:          50,
		DeleteGroceryList:        200,
		ExportGroceryListPDF:     50,
		AddGroceryItem:           50,
		UpdateGroceryItem:        50,
		ApproveGrocerySuggestion: 50,
		CreateMealPlan:           50,
		AddMealPlanIngredient:    50,
		AddItemFromMealPlan:      50,
		GenerateReport:           100,
	}
}

// Cost returns the configured cost of an action.
func (t Table) Cost(action string) (models.Credits, error) {
	cost, ok := t[action]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return cost, nil
}
