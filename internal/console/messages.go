package console

// Diagnostics printed by the command handlers. The text is part of the
// shell's interface and must not change.
const (
	msgClassMissing  = "** class name missing **"
	msgClassNotExist = "** class doesn't exist **"
	msgIDMissing     = "** instance id missing **"
	msgNoInstance    = "** no instance found **"
	msgAttrMissing   = "** attribute name missing **"
	msgValueMissing  = "** value missing **"
)

// Prompt is printed before each line is read when prompting is enabled.
const Prompt = "(hbnb) "
