// Copyright 2017 Microsoft. All rights reserved.
// MIT License

//go:build linux
// +build linux

package netlink

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Netlink protocol constants that are not already defined in unix package.
const (
	DEFAULT_CHANGE = 0xFFFFFFFF

	// MaxAttrLen is the size of the attribute area that follows the
	// interface info header in a link request.
	MaxAttrLen = 128
)

// ErrMessageOverflow is returned when an attribute does not fit the attribute area.
var ErrMessageOverflow = errors.New("netlink message attribute area overflow")

var encoder binary.ByteOrder = binary.NativeEndian

func nlmsgAlign(length int) int {
	return (length + unix.NLMSG_ALIGNTO - 1) & ^(unix.NLMSG_ALIGNTO - 1)
}

func rtaAlign(length int) int {
	return (length + unix.RTA_ALIGNTO - 1) & ^(unix.RTA_ALIGNTO - 1)
}

//
// Netlink message
//

// Message is a link request: a netlink header, one interface info header
// and a bounded attribute area. Lengths and alignment are tracked as
// attributes are added, so the serialized form always matches Len.
type Message struct {
	unix.NlMsghdr
	ifInfo  *ifInfoMsg
	attrs   []*attribute
	attrLen int
}

// newMessage creates a new netlink message addressed from this process.
func newMessage(msgType int, flags int) *Message {
	msg := &Message{
		NlMsghdr: unix.NlMsghdr{
			Type:  uint16(msgType),
			Flags: uint16(flags),
			Seq:   0,
			Pid:   uint32(unix.Getpid()),
		},
	}
	msg.Len = uint32(msg.length())

	return msg
}

// newRequest creates a new netlink request message.
func newRequest(msgType int, flags int) *Message {
	return newMessage(msgType, flags|unix.NLM_F_REQUEST)
}

// setIfInfo sets the interface info header.
func (msg *Message) setIfInfo(ifInfo *ifInfoMsg) {
	msg.ifInfo = ifInfo
	msg.Len = uint32(msg.length())
}

// addAttribute appends attr if it fits in the attribute area.
func (msg *Message) addAttribute(attr *attribute) error {
	if msg.attrLen+attr.length() > MaxAttrLen {
		return errors.Wrapf(ErrMessageOverflow, "attribute %d needs %d bytes, %d left",
			attr.Type, attr.length(), MaxAttrLen-msg.attrLen)
	}

	msg.attrs = append(msg.attrs, attr)
	msg.attrLen += attr.length()
	msg.Len = uint32(msg.length())

	return nil
}

// length returns NLMSG_SPACE(sizeof(ifinfomsg)) plus the aligned attributes.
func (msg *Message) length() int {
	length := unix.NLMSG_HDRLEN
	if msg.ifInfo != nil {
		length += msg.ifInfo.length()
	}

	return nlmsgAlign(length) + msg.attrLen
}

// Attributes returns the number of attributes in the message.
func (msg *Message) Attributes() int {
	return len(msg.attrs)
}

// Serialize encodes the message in native byte order.
func (msg *Message) Serialize() []byte {
	b := make([]byte, msg.length())
	encoder.PutUint32(b[0:4], msg.Len)
	encoder.PutUint16(b[4:6], msg.Type)
	encoder.PutUint16(b[6:8], msg.Flags)
	encoder.PutUint32(b[8:12], msg.Seq)
	encoder.PutUint32(b[12:16], msg.Pid)

	next := unix.NLMSG_HDRLEN
	if msg.ifInfo != nil {
		msg.ifInfo.serialize(b[next:])
		next = nlmsgAlign(next + msg.ifInfo.length())
	}

	for _, attr := range msg.attrs {
		attr.serialize(b[next:])
		next += attr.length()
	}

	return b
}

//
// Netlink message attribute
//

// Generic netlink message attribute
type attribute struct {
	unix.RtAttr
	value []byte
}

// Creates a new attribute.
func newAttribute(attrType int, value []byte) *attribute {
	return &attribute{
		RtAttr: unix.RtAttr{
			Len:  uint16(unix.SizeofRtAttr + len(value)),
			Type: uint16(attrType),
		},
		value: value,
	}
}

// Creates a new attribute with a uint32 value.
func newAttributeUint32(attrType int, value uint32) *attribute {
	buf := make([]byte, 4)
	encoder.PutUint32(buf, value)
	return newAttribute(attrType, buf)
}

// Serializes an attribute into b. Padding bytes are left zero.
func (attr *attribute) serialize(b []byte) {
	encoder.PutUint16(b[0:2], attr.Len)
	encoder.PutUint16(b[2:4], attr.Type)
	copy(b[unix.SizeofRtAttr:], attr.value)
}

// Returns the aligned length of an attribute.
func (attr *attribute) length() int {
	return rtaAlign(int(attr.Len))
}

//
// Network interface service module
//

// Interface info message
type ifInfoMsg struct {
	unix.IfInfomsg
}

// Creates a new interface info message.
func newIfInfoMsg() *ifInfoMsg {
	return &ifInfoMsg{
		IfInfomsg: unix.IfInfomsg{
			Family: uint8(unix.AF_UNSPEC),
		},
	}
}

// Serializes an interface info message into b.
func (ifInfo *ifInfoMsg) serialize(b []byte) {
	b[0] = ifInfo.Family
	b[1] = 0 // Padding.
	encoder.PutUint16(b[2:4], ifInfo.Type)
	encoder.PutUint32(b[4:8], uint32(ifInfo.Index))
	encoder.PutUint32(b[8:12], ifInfo.Flags)
	encoder.PutUint32(b[12:16], ifInfo.Change)
}

// Returns the length of an interface info message.
func (ifInfo *ifInfoMsg) length() int {
	return unix.SizeofIfInfomsg
}
