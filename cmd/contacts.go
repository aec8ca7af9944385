package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanLisse/flok/internal/contacts"
)

func newContactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Browse and manage contacts",
	}
	cmd.AddCommand(newContactsListCmd())
	cmd.AddCommand(newContactsShowCmd())
	cmd.AddCommand(newContactsCreateCmd())
	cmd.AddCommand(newContactsUpdateCmd())
	cmd.AddCommand(newContactsDeleteCmd())
	return cmd
}

func newContactsListCmd() *cobra.Command {
	var (
		search string
		count  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts, optionally filtered by a search term",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			client, err := app.contactsClient()
			if err != nil {
				return err
			}
			list, _, err := client.ListContacts(cmd.Context(), search, count)
			if err != nil {
				return err
			}
			fmt.Println(app.formatter.Contacts(list))
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "q", "", "Search term (name, email, company)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Maximum number of contacts (default: 50)")
	return cmd
}

func newContactsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <contact-id>",
		Short: "Show the details of a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			client, err := app.contactsClient()
			if err != nil {
				return err
			}
			ct, err := client.GetContact(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(app.formatter.Contact(ct))
			return nil
		},
	}
}

func newContactsCreateCmd() *cobra.Command {
	var draft contacts.Draft
	var phone string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireWritable("contacts create"); err != nil {
				return err
			}
			client, err := app.contactsClient()
			if err != nil {
				return err
			}
			draft.BusinessPhones = splitList(phone)
			ct, err := client.CreateContact(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Println(app.formatter.Contact(ct))
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.GivenName, "given-name", "", "Given (first) name")
	cmd.Flags().StringVar(&draft.Surname, "surname", "", "Surname (last name)")
	cmd.Flags().StringVar(&draft.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Business phone number(s), comma-separated")
	cmd.Flags().StringVar(&draft.CompanyName, "company", "", "Company name")
	cmd.Flags().StringVar(&draft.JobTitle, "title", "", "Job title")
	_ = cmd.MarkFlagRequired("given-name")
	return cmd
}

func newContactsUpdateCmd() *cobra.Command {
	var (
		givenName string
		surname   string
		email     string
		phone     string
		company   string
		title     string
	)

	cmd := &cobra.Command{
		Use:   "update <contact-id>",
		Short: "Update fields on an existing contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireWritable("contacts update"); err != nil {
				return err
			}
			client, err := app.contactsClient()
			if err != nil {
				return err
			}
			patch := map[string]any{}
			if cmd.Flags().Changed("given-name") {
				patch["givenName"] = givenName
			}
			if cmd.Flags().Changed("surname") {
				patch["surname"] = surname
			}
			if cmd.Flags().Changed("email") {
				patch["emailAddresses"] = []map[string]string{{"address": email}}
			}
			if cmd.Flags().Changed("phone") {
				patch["businessPhones"] = splitList(phone)
			}
			if cmd.Flags().Changed("company") {
				patch["companyName"] = company
			}
			if cmd.Flags().Changed("title") {
				patch["jobTitle"] = title
			}
			ct, err := client.UpdateContact(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Println(app.formatter.Contact(ct))
			return nil
		},
	}

	cmd.Flags().StringVar(&givenName, "given-name", "", "Given (first) name")
	cmd.Flags().StringVar(&surname, "surname", "", "Surname (last name)")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Business phone number(s), comma-separated")
	cmd.Flags().StringVar(&company, "company", "", "Company name")
	cmd.Flags().StringVar(&title, "title", "", "Job title")
	return cmd
}

func newContactsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <contact-id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireWritable("contacts delete"); err != nil {
				return err
			}
			client, err := app.contactsClient()
			if err != nil {
				return err
			}
			if err := client.DeleteContact(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Contact deleted")
			return nil
		},
	}
}
