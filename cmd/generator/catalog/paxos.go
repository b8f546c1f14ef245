package catalog

import (
	_ "embed"

	"github.com/banditmoscow1337/genpack/cmd/generator/schema"
)

//go:embed licenses/lugano.txt
var luganoLicense string

// PaxosTypes is the libpaxos message catalogue. Proposers, acceptors and
// learners exchange these records wrapped in paxos_message.
var PaxosTypes = schema.Spec{
	Name: "paxos_types",
	Entries: []schema.EntrySpec{
		{Category: schema.CategoryGroup, Name: "paxos_value", Fields: []schema.FieldSpec{
			{Type: "string", Name: "paxos_value"},
		}},
		{Category: schema.CategoryRecord, Name: "paxos_prepare", Fields: []schema.FieldSpec{
			{Type: "uint", Name: "iid"},
			{Type: "uint", Name: "ballot"},
		}},
		{Category: schema.CategoryRecord, Name: "paxos_promise", Fields: []schema.FieldSpec{
			{Type: "uint", Name: "aid"},
			{Type: "uint", Name: "iid"},
			{Type: "uint", Name: "ballot"},
			{Type: "uint", Name: "value_ballot"},
			{Type: "paxos_value", Name: "value"},
		}},
		{Category: schema.CategoryRecord, Name: "paxos_accept", Fields: []schema.FieldSpec{
			{Type: "uint", Name: "iid"},
			{Type: "uint", Name: "ballot"},
			{Type: "paxos_value", Name: "value"},
		}},
		{Category: schema.CategoryRecord, Name: "paxos_accepted", Fields: []schema.FieldSpec{
			{Type: "uint", Name: "aid"},
			{Type: "uint", Name: "iid"},
			{Type: "uint", Name: "ballot"},
			{Type: "uint", Name: "value_ballot"},
			{Type: "paxos_value", Name: "value"},
		}},
		{Category: schema.CategoryRecord, Name: "paxos_preempted", Fields: []schema.FieldSpec{
			{Type: "uint", Name: "aid"},
			{Type: "uint", Name: "iid"},
			{Type: "uint", Name: "ballot"},
		}},
		{Category: schema.CategoryRecord, Name: "paxos_repeat", Fields: []schema.FieldSpec{
			{Type: "uint", Name: "from"},
			{Type: "uint", Name: "to"},
		}},
		{Category: schema.CategoryRecord, Name: "paxos_trim", Fields: []schema.FieldSpec{
			{Type: "uint", Name: "iid"},
		}},
		{Category: schema.CategoryRecord, Name: "paxos_acceptor_state", Fields: []schema.FieldSpec{
			{Type: "uint", Name: "aid"},
			{Type: "uint", Name: "trim_iid"},
		}},
		{Category: schema.CategoryRecord, Name: "paxos_client_value", Fields: []schema.FieldSpec{
			{Type: "paxos_value", Name: "value"},
		}},
		{Category: schema.CategoryUnion, Name: "paxos_message", Fields: []schema.FieldSpec{
			{Type: "paxos_prepare", Name: "prepare"},
			{Type: "paxos_promise", Name: "promise"},
			{Type: "paxos_accept", Name: "accept"},
			{Type: "paxos_accepted", Name: "accepted"},
			{Type: "paxos_preempted", Name: "preempted"},
			{Type: "paxos_repeat", Name: "repeat"},
			{Type: "paxos_trim", Name: "trim"},
			{Type: "paxos_acceptor_state", Name: "state"},
			{Type: "paxos_client_value", Name: "client_value"},
		}},
	},
}
