package server

import (
	"context"
	"fmt"
	"os"

	"github.com/inkwell-press/inkwell/src/auth"
	"github.com/inkwell-press/inkwell/src/db"
	"github.com/inkwell-press/inkwell/src/email"
	"github.com/inkwell-press/inkwell/src/inkdata"
	"github.com/inkwell-press/inkwell/src/models"
	"github.com/spf13/cobra"
)

func init() {
	addEditorCommand := &cobra.Command{
		Use:   "addeditor <name> <email> <password>",
		Short: "Create an editor account",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 3 {
				fmt.Printf("You must provide a name, an email, and a password.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			name, address, password := args[0], args[1], args[2]
			if !email.IsEmail(address) {
				fmt.Printf("'%s' does not look like an email address.\n", address)
				os.Exit(1)
			}

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			editor := &models.Editor{Person: models.Person{
				Name:     name,
				Email:    address,
				Password: auth.HashPassword(password).String(),
			}}
			if err := inkdata.CreateEditor(ctx, conn, editor); err != nil {
				panic(err)
			}

			fmt.Printf("Created editor %s (id %d)\n", editor.Name, editor.ID)
		},
	}

	ServerCommand.AddCommand(addEditorCommand)
}
