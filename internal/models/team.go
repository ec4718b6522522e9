package models

// Team identifies a program. Identity reconciliation across data sources
// happens upstream; the engine only ever sees canonical IDs.
type Team struct {
	ID          string `db:"id" json:"id" validate:"required"`
	DisplayName string `db:"display_name" json:"display_name"`
	Conference  string `db:"conference" json:"conference"`
}
