/*
Copyright 2021 Stefan Prodan

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/stefanprodan/ucsmgr/pkg/mo"
	"github.com/stefanprodan/ucsmgr/pkg/template"
)

var getTemplateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tmpl"},
	Short:   "Get prints the live objects of the given service profile template.",
	Example: `  ucsmgr get template <name> [--org-dn <org dn>]`,
	RunE:    runGetTemplateCmd,
}

type getTemplateFlags struct {
	orgDN string
}

var getTemplateArgs getTemplateFlags

func init() {
	getTemplateCmd.Flags().StringVar(&getTemplateArgs.orgDN, "org-dn", "",
		"The distinguished name of the organization, defaults to the config value.")
	getCmd.AddCommand(getTemplateCmd)
}

func runGetTemplateCmd(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("you must specify a template name")
	}

	orgDN := getTemplateArgs.orgDN
	if orgDN == "" {
		orgDN = cfg.OrgDN
	}

	opts, err := template.ParseOptions(map[string]string{"name": args[0], "org_dn": orgDN})
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	client, username, password, err := newApplianceClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	if err := client.Login(ctx, username, password); err != nil {
		return err
	}
	defer client.Logout(ctx)

	live, err := client.QueryTree(ctx, opts.DN())
	if err != nil {
		return fmt.Errorf("%s query failed, error: %w", opts.DN(), err)
	}
	if live == nil {
		return fmt.Errorf("template %s not found", opts.DN())
	}

	var rows [][]string
	live.Walk(func(o *mo.ManagedObject) {
		rows = append(rows, []string{o.Class, o.DN, formatProperties(o)})
	})

	printTable(rootCmd.OutOrStdout(), []string{"class", "dn", "properties"}, rows)
	return nil
}

func formatProperties(o *mo.ManagedObject) string {
	var props []string
	for _, name := range o.PropertyNames() {
		if v := o.Get(name); v != "" {
			props = append(props, fmt.Sprintf("%s=%s", name, v))
		}
	}
	return strings.Join(props, " ")
}

func printTable(writer io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(writer)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}
