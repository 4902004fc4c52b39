// Package services contains the marketplace operations the terminal client
// performs: authentication, catalog browsing, purchasing, supplier inventory,
// wallet movements and administration. Each service is a thin typed layer
// over a Requester; request payloads are validated before anything is sent.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/streamstock/internal/common"
	"github.com/go-playground/validator/v10"
)

// Requester issues one JSON call against the API. *client.Client implements it.
type Requester interface {
	Do(ctx context.Context, method, path string, query url.Values, in, out any) error
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks v's validate tags and reports every failing field.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", common.ErrorValidation, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", common.ErrorValidation, strings.Join(fields, ", "))
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(page, 0)))
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	return q
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
