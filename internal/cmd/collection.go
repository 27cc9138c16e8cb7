package cmd

import (
	"fmt"

	"github.com/dyike/clipmind/internal/format"
	"github.com/spf13/cobra"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage collections",
	Long:  "Create, list, and remove collections, and assign items to them",
}

var collectionAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionAdd,
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all collections",
	RunE:  runCollectionList,
}

var collectionRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a collection (items are kept)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionRemove,
}

var collectionAssignCmd = &cobra.Command{
	Use:   "assign <item-id> <name>",
	Short: "Assign an item to a collection",
	Args:  cobra.ExactArgs(2),
	RunE:  runCollectionAssign,
}

var collectionDetachCmd = &cobra.Command{
	Use:   "detach <item-id>",
	Short: "Remove an item from its collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionDetach,
}

var collectionColor string

func init() {
	collectionAddCmd.Flags().StringVar(&collectionColor, "color", "", "Display color (hex)")

	// 添加子命令
	collectionCmd.AddCommand(collectionAddCmd)
	collectionCmd.AddCommand(collectionListCmd)
	collectionCmd.AddCommand(collectionRemoveCmd)
	collectionCmd.AddCommand(collectionAssignCmd)
	collectionCmd.AddCommand(collectionDetachCmd)
}

func runCollectionAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	cm, err := getClipMind()
	if err != nil {
		return err
	}
	defer cm.Close()

	col, err := cm.CreateCollection(name, collectionColor)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	fmt.Printf("Created collection '%s' (%s)\n", col.Name, shortID(col.ID))
	return nil
}

func runCollectionList(cmd *cobra.Command, args []string) error {
	cm, err := getClipMind()
	if err != nil {
		return err
	}
	defer cm.Close()

	collections, err := cm.ListCollections()
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	if len(collections) == 0 {
		fmt.Println("No collections found")
		fmt.Println("Use 'clipmind collection add <name>' to create one")
		return nil
	}

	return format.OutputCollections(collections, format.Format(outputFormat))
}

func runCollectionRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	cm, err := getClipMind()
	if err != nil {
		return err
	}
	defer cm.Close()

	col, err := cm.GetCollectionByName(name)
	if err != nil {
		return fmt.Errorf("collection not found: %s", name)
	}

	if err := cm.DeleteCollection(col.ID); err != nil {
		return fmt.Errorf("failed to remove collection: %w", err)
	}

	fmt.Printf("Removed collection '%s' (%d items detached)\n", name, col.ItemCount)
	return nil
}

func runCollectionAssign(cmd *cobra.Command, args []string) error {
	cm, err := getClipMind()
	if err != nil {
		return err
	}
	defer cm.Close()

	item, err := resolveItem(cm, args[0])
	if err != nil {
		return err
	}

	col, err := cm.GetCollectionByName(args[1])
	if err != nil {
		return fmt.Errorf("collection not found: %s", args[1])
	}

	if err := cm.AssignCollection(item.ID, col.ID); err != nil {
		return fmt.Errorf("failed to assign item: %w", err)
	}

	fmt.Printf("Assigned %s to '%s'\n", shortID(item.ID), col.Name)
	return nil
}

func runCollectionDetach(cmd *cobra.Command, args []string) error {
	cm, err := getClipMind()
	if err != nil {
		return err
	}
	defer cm.Close()

	item, err := resolveItem(cm, args[0])
	if err != nil {
		return err
	}

	if err := cm.AssignCollection(item.ID, ""); err != nil {
		return fmt.Errorf("failed to detach item: %w", err)
	}

	fmt.Printf("Detached %s from its collection\n", shortID(item.ID))
	return nil
}
