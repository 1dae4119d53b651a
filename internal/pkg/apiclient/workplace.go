package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/workplace"
)

// FetchWorkplaceLocations returns the active workplace locations for a
// company.
func (c *Client) FetchWorkplaceLocations(ctx context.Context, companyID string) ([]workplace.Location, error) {
	path := fmt.Sprintf("/hr/workplace-location/getActiveByCompany/%s", url.PathEscape(companyID))

	var locations []workplace.Location
	if err := c.do(ctx, http.MethodGet, path, nil, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// GetWorkplaceLocation returns a single workplace location by id.
func (c *Client) GetWorkplaceLocation(ctx context.Context, id string) (workplace.Location, error) {
	path := fmt.Sprintf("/hr/workplace-location/getById/%s", url.PathEscape(id))

	var loc workplace.Location
	if err := c.do(ctx, http.MethodGet, path, nil, &loc); err != nil {
		return workplace.Location{}, err
	}
	return loc, nil
}
