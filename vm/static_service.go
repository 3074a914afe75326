// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/utils/formatting"

	"github.com/ava-labs/reviewvm/reviewvm"
)

// StaticService builds and parses review instruction data
type StaticService struct{}

// CreateStaticService ...
func CreateStaticService() *StaticService {
	return &StaticService{}
}

const (
	commandAdd    = "add"
	commandUpdate = "update"
	commandDelete = "delete"
)

// InstructionArgs are arguments for BuildInstruction
type InstructionArgs struct {
	Command  string              `json:"command"`
	Title    string              `json:"title"`
	Rating   uint8               `json:"rating"`
	Review   string              `json:"review"`
	Encoding formatting.Encoding `json:"encoding"`
}

// InstructionBytesReply is the reply from BuildInstruction
type InstructionBytesReply struct {
	Bytes    string              `json:"bytes"`
	Encoding formatting.Encoding `json:"encoding"`
}

// BuildInstruction returns the encoded instruction data for a command
func (ss *StaticService) BuildInstruction(_ *http.Request, args *InstructionArgs, reply *InstructionBytesReply) error {
	var cmd reviewvm.Command
	switch args.Command {
	case commandAdd:
		cmd = reviewvm.AddReview{Title: args.Title, Rating: args.Rating, Review: args.Review}
	case commandUpdate:
		cmd = reviewvm.UpdateReview{Title: args.Title, Rating: args.Rating, Review: args.Review}
	case commandDelete:
		cmd = reviewvm.DeleteReview{Title: args.Title}
	default:
		return fmt.Errorf("unknown command %q", args.Command)
	}
	data, err := reviewvm.Encode(cmd)
	if err != nil {
		return err
	}
	bytes, err := formatting.EncodeWithChecksum(args.Encoding, data)
	if err != nil {
		return fmt.Errorf("couldn't encode data as string: %s", err)
	}
	reply.Bytes = bytes
	reply.Encoding = args.Encoding
	return nil
}

// InstructionBytesArgs are arguments for ParseInstruction
type InstructionBytesArgs struct {
	Bytes    string              `json:"bytes"`
	Encoding formatting.Encoding `json:"encoding"`
}

// InstructionReply is the reply from ParseInstruction
type InstructionReply struct {
	Command string `json:"command"`
	Title   string `json:"title"`
	Rating  uint8  `json:"rating"`
	Review  string `json:"review"`
}

// ParseInstruction decodes instruction data
func (ss *StaticService) ParseInstruction(_ *http.Request, args *InstructionBytesArgs, reply *InstructionReply) error {
	data, err := formatting.Decode(args.Encoding, args.Bytes)
	if err != nil {
		return fmt.Errorf("couldn't decode data as string: %s", err)
	}
	cmd, err := reviewvm.Decode(data, reviewvm.Full)
	if err != nil {
		return err
	}
	switch cmd := cmd.(type) {
	case reviewvm.AddReview:
		reply.Command, reply.Title, reply.Rating, reply.Review = commandAdd, cmd.Title, cmd.Rating, cmd.Review
	case reviewvm.UpdateReview:
		reply.Command, reply.Title, reply.Rating, reply.Review = commandUpdate, cmd.Title, cmd.Rating, cmd.Review
	case reviewvm.DeleteReview:
		reply.Command, reply.Title = commandDelete, cmd.Title
	}
	return nil
}
