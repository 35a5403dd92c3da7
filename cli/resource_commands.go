package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/jrsteele09/traveline-backoffice/dashboard"
	"github.com/jrsteele09/traveline-backoffice/internal/errors"
	"github.com/spf13/cobra"
)

// withResource builds the app, runs the admin guard and resolves the
// resource named by the first argument.
func withResource(opts *rootOptions, fn func(cmd *cobra.Command, ctx context.Context, res dashboard.Resource, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := newApp(ctx, opts.cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.requireAdmin(ctx); err != nil {
			return err
		}
		res, err := a.dashboard.Resource(args[0])
		if err != nil {
			return fmt.Errorf("%w (known: %s)", err, strings.Join(a.dashboard.ResourceNames(), ", "))
		}
		return fn(cmd, ctx, res, args[1:])
	}
}

func unsupported(res dashboard.Resource, op string) error {
	return errors.Wrapf(errors.ErrUnsupported, "%s does not support %s", res.Name, op)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newResourcesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List the resources the other commands accept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Names only; nothing here touches the backend or the session.
			for _, name := range dashboard.New(nil, nil).ResourceNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func parseParams(raw []string) (url.Values, error) {
	params := url.Values{}
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, errors.Wrapf(errors.ErrInvalidArgument, "parameter %q is not key=value", kv)
		}
		params.Add(key, value)
	}
	return params, nil
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var rawParams []string

	cmd := &cobra.Command{
		Use:     "list <resource>",
		Short:   "List a resource as JSON",
		Example: "  traveline list destinations -p q=hue -p limit=10\n  traveline list administrative -p province=48",
		Args:    cobra.ExactArgs(1),
		RunE: withResource(opts, func(cmd *cobra.Command, ctx context.Context, res dashboard.Resource, _ []string) error {
			if res.List == nil {
				return unsupported(res, "list")
			}
			params, err := parseParams(rawParams)
			if err != nil {
				return err
			}
			data, err := res.List(ctx, params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		}),
	}
	cmd.Flags().StringArrayVarP(&rawParams, "param", "p", nil, "Filter as key=value. Repeatable.")
	return cmd
}

func newGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "get <resource> <id>",
		Short:   "Show one item of a resource as JSON",
		Example: "  traveline get vouchers 12\n  traveline get statistics revenue",
		Args:    cobra.ExactArgs(2),
		RunE: withResource(opts, func(cmd *cobra.Command, ctx context.Context, res dashboard.Resource, args []string) error {
			if res.Get == nil {
				return unsupported(res, "get")
			}
			data, err := res.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		}),
	}
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete one item of a resource",
		Args:  cobra.ExactArgs(2),
		RunE: withResource(opts, func(cmd *cobra.Command, ctx context.Context, res dashboard.Resource, args []string) error {
			if res.Delete == nil {
				return unsupported(res, "delete")
			}
			if err := res.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", res.Name, args[0])
			return nil
		}),
	}
}

func newApproveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <resource> <id>",
		Short: "Approve a pending contract or vehicle",
		Args:  cobra.ExactArgs(2),
		RunE: withResource(opts, func(cmd *cobra.Command, ctx context.Context, res dashboard.Resource, args []string) error {
			if res.Approve == nil {
				return unsupported(res, "approve")
			}
			if err := res.Approve(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Approved %s %s\n", res.Name, args[0])
			return nil
		}),
	}
}

func newRejectCommand(opts *rootOptions) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject <resource> <id>",
		Short: "Reject a pending contract or vehicle",
		Args:  cobra.ExactArgs(2),
		RunE: withResource(opts, func(cmd *cobra.Command, ctx context.Context, res dashboard.Resource, args []string) error {
			if res.Reject == nil {
				return unsupported(res, "reject")
			}
			if err := res.Reject(ctx, args[0], reason); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rejected %s %s\n", res.Name, args[0])
			return nil
		}),
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Reason sent to the backend as rejectedReason.")
	return cmd
}

// jsonInput reads the body of create and update from --data or --file ("-" is stdin).
func jsonInput(cmd *cobra.Command, data, file string) (json.RawMessage, error) {
	var raw []byte
	switch {
	case data != "" && file != "":
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "use either --data or --file")
	case data != "":
		raw = []byte(data)
	case file == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		raw = b
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		raw = b
	default:
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "a JSON body is required, pass --data or --file")
	}
	if !json.Valid(raw) {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "body is not valid JSON")
	}
	return raw, nil
}

func newCreateCommand(opts *rootOptions) *cobra.Command {
	var data, file string

	cmd := &cobra.Command{
		Use:     "create <resource>",
		Short:   "Create a voucher or register a partner from JSON",
		Example: `  traveline create vouchers --data '{"code":"SUMMER10","discountType":"percentage","value":10,"maxUsage":100,"active":true}'`,
		Args:    cobra.ExactArgs(1),
		RunE: withResource(opts, func(cmd *cobra.Command, ctx context.Context, res dashboard.Resource, _ []string) error {
			if res.Create == nil {
				return unsupported(res, "create")
			}
			body, err := jsonInput(cmd, data, file)
			if err != nil {
				return err
			}
			created, err := res.Create(ctx, body)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), created)
		}),
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON body.")
	cmd.Flags().StringVar(&file, "file", "", "File holding the JSON body, - for stdin.")
	return cmd
}

func newUpdateCommand(opts *rootOptions) *cobra.Command {
	var data, file string

	cmd := &cobra.Command{
		Use:     "update <resource>",
		Short:   "Bulk update provinces from JSON",
		Example: `  traveline update provinces --data '[{"id":48,"imageUrl":"https://cdn.example.com/da-nang.jpg"}]'`,
		Args:    cobra.ExactArgs(1),
		RunE: withResource(opts, func(cmd *cobra.Command, ctx context.Context, res dashboard.Resource, _ []string) error {
			if res.Update == nil {
				return unsupported(res, "update")
			}
			body, err := jsonInput(cmd, data, file)
			if err != nil {
				return err
			}
			updated, err := res.Update(ctx, body)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), updated)
		}),
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON body.")
	cmd.Flags().StringVar(&file, "file", "", "File holding the JSON body, - for stdin.")
	return cmd
}
