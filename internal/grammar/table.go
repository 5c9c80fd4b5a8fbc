package grammar

// PassThrough maps an opcode with no policy hook to its fixed field layout
// (spec.md §4.2: "all other opcodes ... are pure pass-through: read the
// fields the grammar defines for that opcode and immediately write them back
// out unmodified"). Opcodes whose layout needs more than a flat field list
// (a length-prefixed repeated group) get a dedicated function in special.go
// instead of a table row.
var PassThrough = map[Opcode][]Field{
	OpKeepAlive:       {{Type: FI32}},
	OpTimeUpdate:      {{Type: FI64}},
	OpEntityEquipment: {{Type: FI32}, {Type: FI16}, {Type: FI16}, {Type: FI16}},
	OpSpawnPosition:   {{Type: FI32}, {Type: FI32}, {Type: FI32}},
	OpUpdateHealth:    {{Type: FI16}, {Type: FI16}, {Type: FF32}},
	OpRespawn:         {{Type: FI8}, {Type: FI8}, {Type: FI8}, {Type: FI16}, {Type: FI64}},
	OpPlayer:          {{Type: FBool}},
	OpPlayerPosition:  {{Type: FF64}, {Type: FF64}, {Type: FF64}, {Type: FF64}, {Type: FBool}},
	OpPlayerLook:      {{Type: FF32}, {Type: FF32}, {Type: FBool}},
	OpPlayerPosLook:   {{Type: FF64}, {Type: FF64}, {Type: FF64}, {Type: FF64}, {Type: FF32}, {Type: FF32}, {Type: FBool}},
	OpHoldingChange:   {{Type: FI16}},
	OpUseBed:          {{Type: FI32}, {Type: FI8}, {Type: FI32}, {Type: FI8}, {Type: FI32}},
	OpAnimation:       {{Type: FI32}, {Type: FI8}},
	OpEntityAction:    {{Type: FI32}, {Type: FI8}},
	OpItemSpawn: {
		{Type: FI32}, {Type: FI16}, {Type: FI8}, {Type: FI16},
		{Type: FI32}, {Type: FI32}, {Type: FI32},
		{Type: FI8}, {Type: FI8}, {Type: FI8},
	},
	OpItemCollect:    {{Type: FI32}, {Type: FI32}},
	OpEntityVelocity: {{Type: FI32}, {Type: FI16}, {Type: FI16}, {Type: FI16}},
	OpEntityDestroy:  {{Type: FI32}},
	OpEntity:         {{Type: FI32}},
	OpEntityRelMove:  {{Type: FI32}, {Type: FI8}, {Type: FI8}, {Type: FI8}},
	OpEntityLook:     {{Type: FI32}, {Type: FI8}, {Type: FI8}},
	OpEntityLookMove: {{Type: FI32}, {Type: FI8}, {Type: FI8}, {Type: FI8}, {Type: FI8}, {Type: FI8}},
	OpEntityTeleport: {{Type: FI32}, {Type: FI32}, {Type: FI32}, {Type: FI32}, {Type: FI8}, {Type: FI8}},
	OpEntityStatus:   {{Type: FI32}, {Type: FI8}},
	OpEntityAttach:   {{Type: FI32}, {Type: FI32}},
	OpEntityMetadata: {{Type: FI32}, {Type: FMetadataBlob}},
	OpPreChunk:       {{Type: FI32}, {Type: FI32}, {Type: FBool}},
	OpMapChunk: {
		{Type: FI32}, {Type: FI16}, {Type: FI32},
		{Type: FI8}, {Type: FI8}, {Type: FI8},
		{Type: FSpanLenU32}, {Type: FSpanFromLen},
	},
	OpBlockChange:    {{Type: FI32}, {Type: FI8}, {Type: FI32}, {Type: FI8}, {Type: FI8}},
	OpBlockAction:    {{Type: FI32}, {Type: FI16}, {Type: FI32}, {Type: FI8}, {Type: FI8}, {Type: FI16}},
	OpCloseWindow:    {{Type: FI8}},
	OpWindowClick:    {{Type: FI8}, {Type: FI16}, {Type: FI8}, {Type: FI16}, {Type: FBool}, {Type: FItem}},
	OpSetSlot:        {{Type: FI8}, {Type: FI16}, {Type: FItem}},
	OpUpdateSign: {
		{Type: FI32}, {Type: FI16}, {Type: FI32},
		{Type: FUTF16}, {Type: FUTF16}, {Type: FUTF16}, {Type: FUTF16},
	},
	OpIncrementStat:  {{Type: FI32}, {Type: FI8}},
	OpPlayerListItem: {{Type: FUTF16}, {Type: FBool}, {Type: FI16}},
	OpServerListPing: {},
}
