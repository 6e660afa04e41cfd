package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskpad/pkg/models"
)

// completeTaskIDs lists task ids with their titles as descriptions.
func completeTaskIDs(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if Board == nil || len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var ids []string
	for _, task := range Board.AllTasks() {
		id := strconv.FormatInt(task.ID, 10)
		if toComplete == "" || strings.HasPrefix(id, toComplete) {
			ids = append(ids, id+"\t"+task.Title)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completeFilterModes lists the valid --filter values.
func completeFilterModes(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, len(models.FilterModes))
	for i, m := range models.FilterModes {
		out[i] = string(m)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
