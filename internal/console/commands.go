package console

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

func commandTable() []command {
	return []command{
		{name: "create", run: doCreate, help: "Creates a new instance of a class, saves it and prints the id.\n" +
			"ex: create BaseModel"},
		{name: "show", run: doShow, help: "Prints the string representation of an instance.\n" +
			"ex: show BaseModel 1234-1234-1234"},
		{name: "destroy", run: doDestroy, help: "Deletes an instance and saves the change.\n" +
			"ex: destroy BaseModel 1234-1234-1234"},
		{name: "all", run: doAll, help: "Prints every instance, or every instance of a class.\n" +
			"ex: all, all User"},
		{name: "update", run: doUpdate, help: "Adds or updates an attribute of an instance and saves the change.\n" +
			"ex: update <class name> <id> <attribute name> \"<attribute value>\""},
		{name: "help", run: doHelp, help: "List available commands, or show help for one command.\n" +
			"ex: help update"},
		{name: "quit", run: doQuit, help: "Quit the hbnb shell."},
		{name: "EOF", run: doQuit, help: "Quit the hbnb shell."},
	}
}

func doCreate(c *Console, arg string) (bool, error) {
	if arg == "" {
		c.println(msgClassMissing)
		return false, nil
	}

	r, err := c.registry.New(arg)
	if err != nil {
		if errors.Is(err, types.ErrUnknownClass) {
			c.println(msgClassNotExist)
			return false, nil
		}
		return true, err
	}

	c.store.New(r)
	if err := c.store.Save(); err != nil {
		return true, err
	}
	c.println(r.ID)
	return false, nil
}

func doShow(c *Console, arg string) (bool, error) {
	r, _, ok := c.lookup(arg, true)
	if ok {
		c.println(r.String())
	}
	return false, nil
}

func doDestroy(c *Console, arg string) (bool, error) {
	r, _, ok := c.lookup(arg, true)
	if !ok {
		return false, nil
	}
	if err := c.store.Delete(r.Key()); err != nil {
		return true, err
	}
	if err := c.store.Save(); err != nil {
		return true, err
	}
	return false, nil
}

func doAll(c *Console, arg string) (bool, error) {
	if arg != "" && !c.registry.Has(arg) {
		// Unknown classes report the missing-class diagnostic.
		c.println(msgClassMissing)
		return false, nil
	}
	for _, r := range c.store.All() {
		if arg == "" || c.registry.IsA(r.Class, arg) {
			c.println(r.String())
		}
	}
	return false, nil
}

func doUpdate(c *Console, arg string) (bool, error) {
	r, args, ok := c.lookup(arg, false)
	if !ok {
		return false, nil
	}
	if len(args) < 3 {
		c.println(msgAttrMissing)
		return false, nil
	}
	if len(args) < 4 {
		c.println(msgValueMissing)
		return false, nil
	}

	name := args[2]
	value := ParseValue(args[3], arg)
	if r.Set(name, value) {
		r.Touch(c.now())
	} else {
		c.logger.Debug("ignoring reserved attribute", "key", r.Key(), "attribute", name)
	}

	if err := c.store.Save(); err != nil {
		return true, err
	}
	return false, nil
}

func doHelp(c *Console, arg string) (bool, error) {
	if arg != "" {
		cmd, ok := c.commands[arg]
		if !ok {
			c.println("*** No help on " + arg)
			return false, nil
		}
		c.println(cmd.help)
		return false, nil
	}

	header := "Documented commands (type help <topic>):"
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(c.out, "\n%s\n%s\n%s\n\n", header, strings.Repeat("=", len(header)), strings.Join(names, "  "))
	return false, nil
}

func doQuit(c *Console, arg string) (bool, error) {
	return true, nil
}

// lookup runs the shared validation of show, destroy and update: class name
// present, class registered, id present, record stored. It prints the
// diagnostic for the first failed check. With exact set, any token count
// other than two counts as a missing id.
func (c *Console) lookup(arg string, exact bool) (*types.Record, []string, bool) {
	if arg == "" {
		c.println(msgClassMissing)
		return nil, nil, false
	}

	args := Tokenize(arg)
	class := args[0]
	if !c.registry.Has(class) {
		c.println(msgClassNotExist)
		return nil, nil, false
	}

	if (exact && len(args) != 2) || len(args) < 2 {
		c.println(msgIDMissing)
		return nil, nil, false
	}

	r, err := c.store.Get(types.Key(class, args[1]))
	if err != nil {
		c.println(msgNoInstance)
		return nil, nil, false
	}
	return r, args, true
}
