package debug

import (
	"bytes"
	"fmt"
	"os"

	"github.com/signadot/go-packet/encode"
	"github.com/signadot/go-packet/format"
	"github.com/signadot/go-packet/ir"
)

// Node renders a node as literal text when formatted with %s.
type Node struct{ *ir.Node }

func (n Node) String() string {
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(n.Node, buf, encode.EncodeFormat(format.LiteralFormat)); err != nil {
		return fmt.Sprintf("[raw *ir.Node] %v", n.Node)
	}
	return buf.String()
}

func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case *ir.Node:
			args[i] = Node{x}.String()
		case []byte:
			if len(x) > 64 {
				args[i] = fmt.Sprintf("%x... (%d bytes)", x[:64], len(x))
			}
		default:
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
