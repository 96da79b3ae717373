package ide

import (
	"testing"

	"github.com/brettbedarf/stshell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	t.Parallel()

	id, err := ParseID("  19D2016D-2337-46BC-AE0E-143E033D4A63 ")
	require.NoError(t, err)
	assert.Equal(t, "19d2016d-2337-46bc-ae0e-143e033d4a63", id)

	for _, bad := range []string{"", "abc", "../etc", "19d2016d-2337-46bc-ae0e"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, ErrInvalidID, "input %q", bad)
	}
}

func TestParseAppList_SmartApps(t *testing.T) {
	t.Parallel()

	page := `<table>
<tr><td><a href="/ide/app/editor/bbb" class="x"><img src="a.png" alt="">
	smartthings : Motion &amp; Light
</a></td></tr>
<tr><td><a href="/ide/app/editor/aaa"><img src="b.png">me:Other</a></td></tr>
<tr><td><a href="/ide/app/editor/aaa"><img src="b.png">me:Other</a></td></tr>
</table>`
	apps, err := parseAppList(stshell.KindSmartApp, SmartAppRoutes(), page)
	require.NoError(t, err)
	assert.Equal(t, []stshell.App{
		{Kind: stshell.KindSmartApp, ID: "aaa", Namespace: "me", Name: "Other"},
		{Kind: stshell.KindSmartApp, ID: "bbb", Namespace: "smartthings", Name: "Motion & Light"},
	}, apps)
}

func TestParseAppList_DeviceTypes(t *testing.T) {
	t.Parallel()

	page := `<A HREF="/ide/device/editor/d1" title="t">
		me : Dimmer Switch
	</A>`
	apps, err := parseAppList(stshell.KindDeviceType, DeviceTypeRoutes(), page)
	require.NoError(t, err)
	assert.Equal(t, []stshell.App{{Kind: stshell.KindDeviceType, ID: "d1", Namespace: "me", Name: "Dimmer Switch"}}, apps)
}

func TestParseAppList_Empty(t *testing.T) {
	t.Parallel()

	apps, err := parseAppList(stshell.KindSmartApp, SmartAppRoutes(), "<html>no apps</html>")
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestParseAppList_MarkupVariants(t *testing.T) {
	t.Parallel()

	page := `<ul>
<li><a class="app" href="/ide/app/editor/c1" data-x="1"><span class="icon"><img src="i.png"/></span>
	<span>acme</span> : <b>Garage &lt;Door&gt;</b></a></li>
<li><a href="/ide/app/editor/c2">no separator</a></li>
<li><a href="/ide/device/editor/c3">other : kind</a></li>
<li><a href="/ide/app/editor/">empty : id</a></li>
</ul>`
	apps, err := parseAppList(stshell.KindSmartApp, SmartAppRoutes(), page)
	require.NoError(t, err)
	assert.Equal(t, []stshell.App{
		{Kind: stshell.KindSmartApp, ID: "c1", Namespace: "acme", Name: "Garage <Door>"},
	}, apps)
}

func TestParseEditorIDs(t *testing.T) {
	t.Parallel()

	page := `
		ST.AppIDE.init({
			url: '/ide/app/',
			websocket: 'wss://ic.connect.smartthings.com:8443/',
			client: '1af9e4e7-9a2d-47a4-9edf-c9f326642489',
			id: '19d2016d-2337-46bc-ae0e-143e033d4a63',
			versionId: '5d01fb38-cd7f-48b3-be2f-2509efb09020',
			state: 'NOT_APPROVED'
		});`
	ids, err := parseEditorIDs(SmartAppRoutes(), page)
	require.NoError(t, err)
	assert.Equal(t, &stshell.EditorIDs{
		URL:       "/ide/app/",
		Websocket: "wss://ic.connect.smartthings.com:8443/",
		Client:    "1af9e4e7-9a2d-47a4-9edf-c9f326642489",
		ID:        "19d2016d-2337-46bc-ae0e-143e033d4a63",
		VersionID: "5d01fb38-cd7f-48b3-be2f-2509efb09020",
		State:     "NOT_APPROVED",
	}, ids)

	_, err = parseEditorIDs(DeviceTypeRoutes(), page)
	assert.ErrorIs(t, err, ErrNoMatch, "an app page doesn't carry the device init call")
}

func TestParseCreatedID(t *testing.T) {
	t.Parallel()

	id, err := parseCreatedID(SmartAppRoutes(),
		"https://graph.api.smartthings.com/ide/app/editor/19d2016d-2337-46bc-ae0e-143e033d4a63")
	require.NoError(t, err)
	assert.Equal(t, "19d2016d-2337-46bc-ae0e-143e033d4a63", id)

	_, err = parseCreatedID(DeviceTypeRoutes(), "https://graph.api.smartthings.com/ide/devices")
	assert.ErrorIs(t, err, ErrNoMatch)
}
