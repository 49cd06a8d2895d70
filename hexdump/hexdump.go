// Package hexdump renders byte slices read out of a target process as
// colored hex/ASCII listings, with optional pointer annotation against the
// target's region map.
package hexdump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"godetour/coloransi"
	"godetour/process"
)

// Options defines options for customizing the hexdump output
type Options struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// GroupSize defines the grouping of bytes (usually 1, 2, 4, or 8)
	GroupSize int

	// ShowASCII determines whether to show the ASCII representation
	ShowASCII bool

	// ShowOffset determines whether to show the offset/address column
	ShowOffset bool

	// StartOffset is the starting offset for the hexdump
	StartOffset uint64

	// OffsetWidth is the width of the offset column in hex digits
	OffsetWidth int

	// OffsetColor is the color for the offset/address column
	OffsetColor coloransi.ColorCode

	// HexColor is the color for the hex values
	HexColor coloransi.ColorCode

	// ASCIIColor is the color for the ASCII representation
	ASCIIColor coloransi.ColorCode

	// NonPrintableColor is the color for non-printable ASCII characters
	NonPrintableColor coloransi.ColorCode

	// HighlightPattern is a pattern to highlight in the dump
	HighlightPattern []byte

	// HighlightColor is the color for highlighting the pattern
	HighlightColor coloransi.ColorCode

	// HighlightBackgroundColor is the background color for highlighting
	HighlightBackgroundColor coloransi.ColorCode

	// ZeroColor is the color for zero bytes (0x00)
	ZeroColor coloransi.ColorCode

	// MaxLines is the maximum number of lines to show (0 for no limit)
	MaxLines int

	// ShowPointers determines whether to annotate lines with potential pointers
	ShowPointers bool

	// Regions is the target's region map used for pointer validation
	Regions []process.MemoryRegion
}

// DefaultOptions returns the default hexdump options
func DefaultOptions() Options {
	return Options{
		BytesPerLine:             16,
		GroupSize:                1,
		ShowASCII:                true,
		ShowOffset:               true,
		StartOffset:              0,
		OffsetWidth:              8,
		OffsetColor:              coloransi.Cyan,
		HexColor:                 coloransi.Green,
		ASCIIColor:               coloransi.White,
		NonPrintableColor:        coloransi.BrightBlack,
		HighlightColor:           coloransi.Yellow,
		HighlightBackgroundColor: coloransi.Black,
		ZeroColor:                coloransi.BrightBlack,
		MaxLines:                 0,
		ShowPointers:             false,
		Regions:                  nil,
	}
}

// Dump creates a hex dump of the given data with specified options
func Dump(data []byte, options Options) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// DumpToWriter writes a hex dump of the given data to the specified writer
func DumpToWriter(writer io.Writer, data []byte, options Options) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.GroupSize <= 0 {
		options.GroupSize = 1
	}
	if options.OffsetWidth <= 0 {
		options.OffsetWidth = 8
	}

	lineCount := 0
	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		if options.MaxLines > 0 && lineCount >= options.MaxLines {
			fmt.Fprintf(writer, "... %d more bytes\n", len(data)-offset)
			break
		}

		end := offset + options.BytesPerLine
		if end > len(data) {
			end = len(data)
		}

		lineData := data[offset:end]
		formatLine(writer, lineData, uint64(offset)+options.StartOffset, options)

		lineCount++
	}
}

// formatLine formats a single line of the hex dump
func formatLine(writer io.Writer, data []byte, offset uint64, options Options) {
	if options.ShowOffset {
		offsetStr := fmt.Sprintf("%0"+strconv.Itoa(options.OffsetWidth)+"x", offset)
		fmt.Fprint(writer, coloransi.Foreground(options.OffsetColor, offsetStr), "  ")
	}

	hexParts := formatHexValues(data, options)

	// Only show the mid-line divider once the line actually reaches past
	// half of BytesPerLine.
	useSplit := options.BytesPerLine >= 8 && len(data) > (options.BytesPerLine/2)

	groupsPerLine := options.BytesPerLine / options.GroupSize
	if groupsPerLine == 0 {
		groupsPerLine = 1
	}
	leftGroups := groupsPerLine / 2
	if leftGroups > len(hexParts) {
		leftGroups = len(hexParts)
	}

	if useSplit && leftGroups > 0 && leftGroups < len(hexParts) {
		firstHalf := strings.Join(hexParts[:leftGroups], " ")
		secondHalf := strings.Join(hexParts[leftGroups:], " ")
		fmt.Fprint(writer, firstHalf, " | ", secondHalf)
	} else {
		fmt.Fprint(writer, strings.Join(hexParts, " "))
	}

	// Pad short lines so the ASCII column stays aligned.
	if options.BytesPerLine > len(data) {
		fullGroups := (options.BytesPerLine + options.GroupSize - 1) / options.GroupSize
		curGroups := (len(data) + options.GroupSize - 1) / options.GroupSize
		missingBytes := options.BytesPerLine - len(data)

		deltaSpaces := (fullGroups - 1) - max(0, curGroups-1)

		pipeFull := 0
		if options.BytesPerLine >= 8 {
			pipeFull = 3
		}
		pipeCur := 0
		if useSplit {
			pipeCur = 3
		}

		paddingSize := missingBytes*2 + deltaSpaces + (pipeFull - pipeCur)
		if paddingSize > 0 {
			fmt.Fprint(writer, strings.Repeat(" ", paddingSize))
		}
	}

	if options.ShowASCII {
		fmt.Fprint(writer, " | ")

		if options.BytesPerLine >= 8 && len(data) > options.BytesPerLine/2 {
			midPoint := options.BytesPerLine / 2
			if midPoint < len(data) {
				formatASCII(writer, data[:midPoint], 0, options)
				fmt.Fprint(writer, " ")
				formatASCII(writer, data[midPoint:], midPoint, options)
			} else {
				formatASCII(writer, data, 0, options)
			}
		} else {
			formatASCII(writer, data, 0, options)
		}
	}

	if options.ShowPointers && len(data) >= 8 {
		fmt.Fprint(writer, " | ")
		ptr := binary.LittleEndian.Uint64(data[:8])
		if isValidPointer(ptr, options.Regions) {
			fmt.Fprintf(writer, "%s ", coloransi.Foreground(coloransi.Yellow, fmt.Sprintf("0x%x", ptr)))
		}
		if len(data) >= 16 {
			ptr2 := binary.LittleEndian.Uint64(data[8:16])
			if isValidPointer(ptr2, options.Regions) {
				fmt.Fprintf(writer, "%s", coloransi.Foreground(coloransi.Yellow, fmt.Sprintf("0x%x", ptr2)))
			}
		}
	}

	fmt.Fprintln(writer)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// formatASCII formats the ASCII part of a hex dump line
func formatASCII(writer io.Writer, data []byte, offset int, options Options) {
	for i, b := range data {
		c := rune(b)
		color := options.ASCIIColor

		isHighlighted := false
		if len(options.HighlightPattern) > 0 {
			pos := offset + i
			if pos+len(options.HighlightPattern) <= len(data) {
				if bytes.Equal(data[pos:pos+len(options.HighlightPattern)], options.HighlightPattern) {
					isHighlighted = true
				}
			}
		}

		if isHighlighted {
			fmt.Fprint(writer, coloransi.Color(options.HighlightColor, options.HighlightBackgroundColor, string(c)))
		} else if b == 0 {
			fmt.Fprint(writer, coloransi.Foreground(options.ZeroColor, "."))
		} else if !unicode.IsPrint(c) {
			fmt.Fprint(writer, coloransi.Foreground(options.NonPrintableColor, "."))
		} else {
			fmt.Fprint(writer, coloransi.Foreground(color, string(c)))
		}
	}
}

// formatHexValues formats the hex values part of the line with proper grouping and highlighting
func formatHexValues(data []byte, options Options) []string {
	var result []string
	var groupBuffer []string

	for i, b := range data {
		hexValue := fmt.Sprintf("%02x", b)
		color := options.HexColor

		if b == 0 {
			color = options.ZeroColor
		}

		isHighlighted := false
		if len(options.HighlightPattern) > 0 {
			if i+len(options.HighlightPattern) <= len(data) {
				if bytes.Equal(data[i:i+len(options.HighlightPattern)], options.HighlightPattern) {
					isHighlighted = true
					color = options.HighlightColor
				}
			}
		}

		var coloredHex string
		if isHighlighted {
			coloredHex = coloransi.Color(color, options.HighlightBackgroundColor, hexValue)
		} else {
			coloredHex = coloransi.Foreground(color, hexValue)
		}

		groupBuffer = append(groupBuffer, coloredHex)

		if (i+1)%options.GroupSize == 0 || i == len(data)-1 {
			result = append(result, strings.Join(groupBuffer, ""))
			groupBuffer = nil
		}
	}

	return result
}

// isValidPointer checks whether ptr lands inside a committed region of the
// target's region map.
func isValidPointer(ptr uint64, regions []process.MemoryRegion) bool {
	for _, r := range regions {
		if r.State != process.MEM_COMMIT {
			continue
		}
		if ptr >= uint64(r.BaseAddress) && ptr < uint64(r.BaseAddress)+r.Size {
			return true
		}
	}
	return false
}

// DumpBytes creates a simple hex dump with default options
func DumpBytes(data []byte) string {
	return Dump(data, DefaultOptions())
}

// DumpBytesWithHighlight creates a hex dump with the specified bytes highlighted
func DumpBytesWithHighlight(data []byte, highlight []byte) string {
	options := DefaultOptions()
	options.HighlightPattern = highlight
	return Dump(data, options)
}

// DumpWithOffset creates a hex dump addressed from startOffset, annotating
// qword pointers that land inside the given region map.
func DumpWithOffset(data []byte, startOffset uint64, regions []process.MemoryRegion) string {
	options := DefaultOptions()
	options.StartOffset = startOffset
	if regions != nil {
		options.ShowPointers = true
		options.Regions = regions
	}
	return Dump(data, options)
}
