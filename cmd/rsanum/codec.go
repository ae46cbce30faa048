package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"rsanum/internal/bignum"
)

// codecs maps an encoding name to its encoder and decoder. Byte-oriented
// encodings travel as hex on the command line.
var codecs = map[string]struct {
	encode func(bignum.BigInt) (string, error)
	decode func(string) (bignum.BigInt, error)
}{
	"hex": {
		encode: func(v bignum.BigInt) (string, error) { return v.String(), nil },
		decode: func(s string) (bignum.BigInt, error) {
			if strings.Contains(strings.ToLower(s), "0x") {
				return bignum.ParseInt(s)
			}
			return bignum.ParseHex(s)
		},
	},
	"dec": {
		encode: func(v bignum.BigInt) (string, error) { return v.Text(10), nil },
		decode: bignum.ParseInt,
	},
	"bytes": {
		encode: func(v bignum.BigInt) (string, error) { return hex.EncodeToString(v.Bytes()), nil },
		decode: func(s string) (bignum.BigInt, error) {
			data, err := decodeHexArg(s)
			if err != nil {
				return bignum.BigInt{}, err
			}
			return bignum.FromBytes(data), nil
		},
	},
	"asn1": {
		encode: hexOf(bignum.BigInt.MarshalASN1),
		decode: func(s string) (bignum.BigInt, error) {
			data, err := decodeHexArg(s)
			if err != nil {
				return bignum.BigInt{}, err
			}
			return bignum.ParseASN1(data)
		},
	},
	"binary": {
		encode: hexOf(bignum.BigInt.MarshalBinary),
		decode: func(s string) (bignum.BigInt, error) {
			data, err := decodeHexArg(s)
			if err != nil {
				return bignum.BigInt{}, err
			}
			var v bignum.BigInt
			err = v.UnmarshalBinary(data)
			return v, err
		},
	},
	"msgpack": {
		encode: hexOf(func(v bignum.BigInt) ([]byte, error) { return msgpack.Marshal(v) }),
		decode: func(s string) (bignum.BigInt, error) {
			data, err := decodeHexArg(s)
			if err != nil {
				return bignum.BigInt{}, err
			}
			var v bignum.BigInt
			err = msgpack.Unmarshal(data, &v)
			return v, err
		},
	},
}

func hexOf(marshal func(bignum.BigInt) ([]byte, error)) func(bignum.BigInt) (string, error) {
	return func(v bignum.BigInt) (string, error) {
		data, err := marshal(v)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(data), nil
	}
}

// decodeHexArg accepts hex with an optional 0x prefix and any spaces or
// colons between bytes.
func decodeHexArg(s string) ([]byte, error) {
	s = normalizeArg(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.NewReplacer(" ", "", ":", "", "\n", "", "\t", "").Replace(s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bignum.ErrMalformed, err)
	}
	return data, nil
}

func codecNames() string {
	return "hex|dec|bytes|asn1|binary|msgpack"
}

func newEncodeCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "encode <x>",
		Short: "Encode an integer (" + codecNames() + ")",
		Long: "Encode an integer. bytes is the big-endian magnitude, asn1 the BIT STRING\n" +
			"wrapped OCTET STRING, binary a sign byte plus magnitude, msgpack the binary form\n" +
			"as a msgpack bin. Byte encodings are printed as hex.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionOf(cmd)
			c, ok := codecs[strings.ToLower(to)]
			if !ok {
				return fmt.Errorf("unknown encoding %q (expected %s)", to, codecNames())
			}
			x, err := parseNumber("x", args[0])
			if err != nil {
				return err
			}
			var text string
			if err := s.step("encode", func() (err error) {
				text, err = c.encode(x)
				return err
			}); err != nil {
				return fmt.Errorf("encode %s: %w", to, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "bytes", "target encoding ("+codecNames()+")")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "decode <data>",
		Short: "Decode an integer (" + codecNames() + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionOf(cmd)
			c, ok := codecs[strings.ToLower(from)]
			if !ok {
				return fmt.Errorf("unknown encoding %q (expected %s)", from, codecNames())
			}
			var x bignum.BigInt
			if err := s.step("decode", func() (err error) {
				x, err = c.decode(normalizeArg(args[0]))
				return err
			}); err != nil {
				return fmt.Errorf("decode %s: %w", from, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatNumber(x, s.base))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "bytes", "source encoding ("+codecNames()+")")
	return cmd
}
