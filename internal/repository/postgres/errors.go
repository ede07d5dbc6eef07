package postgres

import (
	"fmt"

	"workflowhub/internal/model"
	"workflowhub/pkg/util"
)

func insertError(table, id string, err error) error {
	if util.IsDuplicateKey(err) {
		return fmt.Errorf("insert %s %q: %w", table, id, model.ErrDuplicateID)
	}
	return fmt.Errorf("insert %s %q: %w", table, id, err)
}
