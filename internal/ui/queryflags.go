package ui

import (
	"fmt"

	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/spf13/cobra"
)

// AddQueryFlags adds the OData query flags shared by the list commands.
func AddQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("filter", "", "OData $filter expression")
	cmd.Flags().String("select", "", "Comma separated properties to return")
	cmd.Flags().String("orderby", "", "OData $orderby expression, e.g. 'lastModifiedTime desc'")
	cmd.Flags().String("expand", "", "Related entities to expand, e.g. 'sections,sectionGroups'")
	cmd.Flags().String("name-contains", "", "Only return entities whose name contains this text")
	cmd.Flags().Int("top", 0, "Maximum number of items to return")
	cmd.Flags().Int("skip", 0, "Number of items to skip")
}

// ParseQueryFlags builds a query from the flags added by AddQueryFlags.
// nameField is the property --name-contains filters on ("name" or "title").
func ParseQueryFlags(cmd *cobra.Command, nameField string) (onenote.Query, error) {
	var q onenote.Query
	var err error

	if q.Filter, err = cmd.Flags().GetString("filter"); err != nil {
		return onenote.Query{}, fmt.Errorf("error parsing filter flag: %w", err)
	}
	if q.Select, err = cmd.Flags().GetString("select"); err != nil {
		return onenote.Query{}, fmt.Errorf("error parsing select flag: %w", err)
	}
	if q.OrderBy, err = cmd.Flags().GetString("orderby"); err != nil {
		return onenote.Query{}, fmt.Errorf("error parsing orderby flag: %w", err)
	}
	if q.Expand, err = cmd.Flags().GetString("expand"); err != nil {
		return onenote.Query{}, fmt.Errorf("error parsing expand flag: %w", err)
	}
	if q.Top, err = cmd.Flags().GetInt("top"); err != nil {
		return onenote.Query{}, fmt.Errorf("error parsing top flag: %w", err)
	}
	if q.Skip, err = cmd.Flags().GetInt("skip"); err != nil {
		return onenote.Query{}, fmt.Errorf("error parsing skip flag: %w", err)
	}
	if q.Top < 0 || q.Skip < 0 {
		return onenote.Query{}, fmt.Errorf("--top and --skip must not be negative")
	}

	contains, err := cmd.Flags().GetString("name-contains")
	if err != nil {
		return onenote.Query{}, fmt.Errorf("error parsing name-contains flag: %w", err)
	}
	if contains != "" {
		if q.Filter != "" {
			return onenote.Query{}, fmt.Errorf("--filter and --name-contains cannot be combined")
		}
		q.Filter = onenote.ContainsFilter(nameField, contains)
	}
	return q, nil
}
