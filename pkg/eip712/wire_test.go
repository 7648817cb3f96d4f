package eip712_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erc7824/eip712structs/pkg/eip712"
	"github.com/erc7824/eip712structs/pkg/soltype"
)

func mailWireTypes() eip712.WireTypes {
	return eip712.WireTypes{
		"EIP712Domain": {
			{Name: "name", Type: "string"},
			{Name: "version", Type: "string"},
			{Name: "chainId", Type: "uint256"},
			{Name: "verifyingContract", Type: "address"},
		},
		"Person": {
			{Name: "name", Type: "string"},
			{Name: "wallet", Type: "address"},
		},
		"Mail": {
			{Name: "from", Type: "Person"},
			{Name: "to", Type: "Person"},
			{Name: "contents", Type: "string"},
		},
	}
}

func TestToWire(t *testing.T) {
	msg, domain := newMail(t)

	td, hash, err := eip712.ToWire(msg, domain)
	require.NoError(t, err)

	assert.Equal(t, "Mail", td.PrimaryType)
	assert.Equal(t, mailWireTypes(), td.Types)
	assert.Equal(t, domain.PlainData(), td.Domain)
	assert.Equal(t, msg.PlainData(), td.Message)
	assert.Equal(t, mailWireHash, hash)

	t.Run("Type table holds structs referenced through arrays", func(t *testing.T) {
		people, err := eip712.NewArray(person, 0)
		require.NoError(t, err)
		group := eip712.MustDefine("Group",
			eip712.Member{Name: "title", Type: soltype.String{}},
			eip712.Member{Name: "members", Type: people},
		)
		inst, err := group.New(map[string]any{"title": "herd"})
		require.NoError(t, err)

		td, _, err := eip712.ToWire(inst, domain)
		require.NoError(t, err)
		assert.Len(t, td.Types, 3)
		assert.Contains(t, td.Types, "Person")
		assert.Equal(t, []eip712.WireMember{
			{Name: "title", Type: "string"},
			{Name: "members", Type: "Person[]"},
		}, td.Types["Group"])
	})

	t.Run("Missing instances", func(t *testing.T) {
		_, _, err := eip712.ToWire(nil, domain)
		assert.ErrorIs(t, err, eip712.ErrInvalidValue)

		_, _, err = eip712.ToWire(msg, nil)
		assert.ErrorIs(t, err, eip712.ErrInvalidValue)
	})

	t.Run("Domain must be EIP712Domain", func(t *testing.T) {
		_, _, err := eip712.ToWire(msg, msg)
		assert.ErrorIs(t, err, eip712.ErrConfiguration)
	})
}

func TestFromWire(t *testing.T) {
	msg, domain := newMail(t)

	t.Run("Round trip", func(t *testing.T) {
		td, _, err := eip712.ToWire(msg, domain)
		require.NoError(t, err)

		gotMsg, gotDomain, err := eip712.FromWire(td, soltype.DefaultCatalog)
		require.NoError(t, err)

		assert.Equal(t, mail.EncodeType(), gotMsg.Definition().EncodeType())
		assert.Equal(t, mailDomain.EncodeType(), gotDomain.Definition().EncodeType())
		assert.Equal(t, msg.PlainData(), gotMsg.PlainData())
		assert.Equal(t, domain.PlainData(), gotDomain.PlainData())

		h, err := gotMsg.HashStruct()
		require.NoError(t, err)
		assert.Equal(t, mailHash, h)

		digest, err := eip712.TypedDataHash(gotMsg, gotDomain)
		require.NoError(t, err)
		assert.Equal(t, mailDigest, digest)

		again, wireHash, err := eip712.ToWire(gotMsg, gotDomain)
		require.NoError(t, err)
		assert.Equal(t, mailWireHash, wireHash)
		assert.Equal(t, td, again)
	})

	t.Run("Round trip with arrays", func(t *testing.T) {
		ids, err := eip712.NewArray(soltype.Uint256, 2)
		require.NoError(t, err)
		people, err := eip712.NewArray(person, 0)
		require.NoError(t, err)
		batch := eip712.MustDefine("Batch",
			eip712.Member{Name: "ids", Type: ids},
			eip712.Member{Name: "people", Type: people},
		)

		in, err := batch.New(map[string]any{
			"ids": []any{1, 2},
			"people": []any{
				map[string]any{"name": "Cow", "wallet": cowWallet.Hex()},
				map[string]any{"name": "Bob", "wallet": bobWallet.Hex()},
			},
		})
		require.NoError(t, err)

		td, wireHash, err := eip712.ToWire(in, domain)
		require.NoError(t, err)

		gotMsg, gotDomain, err := eip712.FromWire(td, soltype.DefaultCatalog)
		require.NoError(t, err)
		assert.Equal(t, in.PlainData(), gotMsg.PlainData())
		assert.Equal(t, domain.PlainData(), gotDomain.PlainData())

		want, err := in.HashStruct()
		require.NoError(t, err)
		got, err := gotMsg.HashStruct()
		require.NoError(t, err)
		assert.Equal(t, want, got)

		_, gotWireHash, err := eip712.ToWire(gotMsg, gotDomain)
		require.NoError(t, err)
		assert.Equal(t, wireHash, gotWireHash)
	})

	t.Run("Round trip through JSON", func(t *testing.T) {
		td, _, err := eip712.ToWire(msg, domain)
		require.NoError(t, err)

		data, err := json.Marshal(td)
		require.NoError(t, err)
		parsed, err := eip712.ParseTypedData(data)
		require.NoError(t, err)

		gotMsg, gotDomain, err := eip712.FromWire(parsed, soltype.DefaultCatalog)
		require.NoError(t, err)
		digest, err := eip712.TypedDataHash(gotMsg, gotDomain)
		require.NoError(t, err)
		assert.Equal(t, mailDigest, digest)
	})

	tests := []struct {
		name   string
		mutate func(td *eip712.TypedData)
		err    error
	}{
		{
			name:   "Missing domain type",
			mutate: func(td *eip712.TypedData) { delete(td.Types, "EIP712Domain") },
			err:    eip712.ErrMissingType,
		},
		{
			name:   "Missing primary type",
			mutate: func(td *eip712.TypedData) { td.PrimaryType = "Letter" },
			err:    eip712.ErrMissingType,
		},
		{
			name: "Struct containing itself",
			mutate: func(td *eip712.TypedData) {
				td.Types["Person"] = append(td.Types["Person"], eip712.WireMember{Name: "friend", Type: "Person"})
			},
			err: eip712.ErrTypeResolution,
		},
		{
			name: "Unknown struct reference",
			mutate: func(td *eip712.TypedData) {
				td.Types["Mail"][0].Type = "Persn"
			},
			err: eip712.ErrTypeResolution,
		},
		{
			name: "Unknown atomic type",
			mutate: func(td *eip712.TypedData) {
				td.Types["Person"][1].Type = "uint"
			},
			err: eip712.ErrTypeResolution,
		},
		{
			name: "Malformed array",
			mutate: func(td *eip712.TypedData) {
				td.Types["Mail"][1].Type = "Person[two]"
			},
			err: eip712.ErrTypeResolution,
		},
		{
			name: "Duplicate member",
			mutate: func(td *eip712.TypedData) {
				td.Types["Person"][1].Name = "name"
			},
			err: eip712.ErrDuplicateMember,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			td := &eip712.TypedData{
				PrimaryType: "Mail",
				Types:       mailWireTypes(),
			}
			test.mutate(td)

			_, _, err := eip712.FromWire(td, soltype.DefaultCatalog)
			assert.ErrorIs(t, err, test.err)
		})
	}

	t.Run("Nil typed data", func(t *testing.T) {
		_, _, err := eip712.FromWire(nil, soltype.DefaultCatalog)
		assert.ErrorIs(t, err, eip712.ErrInvalidValue)
	})

	t.Run("Nil catalog", func(t *testing.T) {
		_, _, err := eip712.FromWire(&eip712.TypedData{PrimaryType: "Mail", Types: mailWireTypes()}, nil)
		assert.ErrorIs(t, err, eip712.ErrConfiguration)
	})
}

func TestRegistry(t *testing.T) {
	reg := eip712.NewRegistry(soltype.DefaultCatalog)
	require.NoError(t, reg.Build(eip712.WireTypes{
		"Person": {
			{Name: "name", Type: "string"},
			{Name: "wallet", Type: "address"},
		},
		"Team": {
			{Name: "lead", Type: "Person"},
			{Name: "pairs", Type: "Person[2][]"},
			{Name: "scores", Type: "uint8[3]"},
		},
	}))

	assert.Equal(t, []string{"Person", "Team"}, reg.Names())

	team, ok := reg.Get("Team")
	require.True(t, ok)
	assert.Equal(t, "Team(Person lead,Person[2][] pairs,uint8[3] scores)Person(string name,address wallet)", team.EncodeType())

	pairs, ok := team.Member("pairs")
	require.True(t, ok)
	outer, ok := pairs.Type.(*eip712.Array)
	require.True(t, ok)
	assert.Equal(t, 0, outer.Len())
	inner, ok := outer.Elem().(*eip712.Array)
	require.True(t, ok)
	assert.Equal(t, 2, inner.Len())

	lead, ok := team.Member("lead")
	require.True(t, ok)
	registeredPerson, _ := reg.Get("Person")
	assert.Same(t, registeredPerson, lead.Type)

	t.Run("Names are registered once", func(t *testing.T) {
		err := reg.Build(eip712.WireTypes{"Person": {{Name: "name", Type: "string"}}})
		assert.ErrorIs(t, err, eip712.ErrConfiguration)
	})

	t.Run("Unknown name", func(t *testing.T) {
		_, ok := reg.Get("Mail")
		assert.False(t, ok)
	})

	t.Run("References earlier builds", func(t *testing.T) {
		require.NoError(t, reg.Build(eip712.WireTypes{
			"Note": {
				{Name: "author", Type: "Person"},
				{Name: "text", Type: "string"},
			},
		}))

		note, ok := reg.Get("Note")
		require.True(t, ok)
		assert.Equal(t, "Note(Person author,string text)Person(string name,address wallet)", note.EncodeType())
	})
}

func TestRegistryBuildFailure(t *testing.T) {
	tests := []struct {
		name  string
		types eip712.WireTypes
	}{
		{
			name: "Unknown type",
			types: eip712.WireTypes{
				"A": {{Name: "b", Type: "Missing"}},
				"C": {{Name: "a", Type: "A"}},
			},
		},
		{
			name:  "Direct self reference",
			types: eip712.WireTypes{"A": {{Name: "v", Type: "uint256"}, {Name: "next", Type: "A"}}},
		},
		{
			name:  "Self reference through fixed array",
			types: eip712.WireTypes{"A": {{Name: "pair", Type: "A[2]"}}},
		},
		{
			name: "Mutual reference",
			types: eip712.WireTypes{
				"A": {{Name: "b", Type: "B"}},
				"B": {{Name: "a", Type: "A[1][]"}, {Name: "c", Type: "C"}},
				"C": {{Name: "a", Type: "A"}},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			reg := eip712.NewRegistry(soltype.DefaultCatalog)
			err := reg.Build(test.types)
			require.ErrorIs(t, err, eip712.ErrTypeResolution)
			assert.Empty(t, reg.Names())

			require.NoError(t, reg.Build(eip712.WireTypes{"A": {{Name: "b", Type: "uint256"}}}))
			a, ok := reg.Get("A")
			require.True(t, ok)
			assert.Equal(t, "A(uint256 b)", a.EncodeType())
		})
	}
}
