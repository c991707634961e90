package commands

type Command struct {
	Flag        byte
	Run         func(Controller) error
	Description string
}

// Controller is the part of the robot the serial console can reach
type Controller interface {
	Debug()
	Verbose()

	// I/O
	Buffered() int
	ReadByte() (byte, error)
}

var (
	DebugCommand = &Command{
		Flag: 'D',
		Run: func(c Controller) error {
			c.Debug()
			return nil
		},
		Description: "Print the current state, calibration, inputs and outputs.",
	}
	VerboseCommand = &Command{
		Flag: 'V',
		Run: func(c Controller) error {
			c.Verbose()
			return nil
		},
		Description: "Enable verbose output.",
	}
	HelpCommand = &Command{
		Flag:        'H',
		Description: "Show all available commands and their descriptions.",
		Run: func(c Controller) error {
			println("Available Commands:")
			for _, cmd := range commands {
				println(string(cmd.Flag) + ": " + cmd.Description)
			}
			return nil
		},
	}
)

var commands = []*Command{
	DebugCommand,
	VerboseCommand,
}

// Poll runs at most one command if console input is waiting. It never blocks, so it is called
// from the control loop between iterations. It returns true if a command ran
func Poll(c Controller) bool {
	if c.Buffered() == 0 {
		return false
	}

	cmdIn, err := c.ReadByte()
	if err != nil {
		return false
	}

	cmd, ok := lookup(cmdIn)
	if !ok {
		return false
	}

	err = cmd.Run(c)
	if err != nil {
		println("error:", err.Error())
	}

	return true
}

func lookup(flag byte) (*Command, bool) {
	if flag == HelpCommand.Flag {
		return HelpCommand, true
	}

	for _, cmd := range commands {
		if cmd.Flag == flag {
			return cmd, true
		}
	}

	return nil, false
}
