package controllers

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Radio Play Monitor</title>
<style>
body { font-family: -apple-system, Helvetica, Arial, sans-serif; margin: 2rem; background: #f5f6f8; color: #1c1e21; }
h1 { font-size: 1.4rem; }
.cards { display: flex; gap: 1rem; flex-wrap: wrap; margin-bottom: 1.5rem; }
.card { background: #fff; border-radius: 8px; padding: 1rem 1.5rem; box-shadow: 0 1px 3px rgba(0,0,0,.1); min-width: 160px; }
.card .value { font-size: 1.8rem; font-weight: 600; }
.card .label { color: #65676b; font-size: .85rem; }
table { border-collapse: collapse; width: 100%; background: #fff; border-radius: 8px; overflow: hidden; box-shadow: 0 1px 3px rgba(0,0,0,.1); }
th, td { text-align: left; padding: .5rem .9rem; border-bottom: 1px solid #eceef1; font-size: .9rem; }
th { background: #fafbfc; color: #65676b; }
.section { margin-bottom: 1.5rem; }
.ok { color: #31a24c; } .bad { color: #e41e3f; }
</style>
</head>
<body>
<h1>Radio Play Monitor</h1>
<div class="cards">
  <div class="card"><div class="value" id="monitoring">-</div><div class="label">Monitoring</div></div>
  <div class="card"><div class="value" id="campaigns">-</div><div class="label">Active campaigns</div></div>
  <div class="card"><div class="value" id="totalPlays">-</div><div class="label">Total plays</div></div>
  <div class="card"><div class="value" id="warmApi">-</div><div class="label">WARM API</div></div>
</div>
<div class="section">
<h2>Campaigns</h2>
<table><thead><tr><th>Campaign</th><th>Artist</th><th>Status</th><th>Last check</th><th>Total</th><th>New</th></tr></thead><tbody id="campaignRows"></tbody></table>
</div>
<div class="section">
<h2>Recent plays</h2>
<table><thead><tr><th>Time</th><th>Artist</th><th>Station</th><th>Played at</th></tr></thead><tbody id="playRows"></tbody></table>
</div>
<script>
function esc(s) { return String(s == null ? "" : s).replace(/[&<>"]/g, function (c) { return { "&": "&amp;", "<": "&lt;", ">": "&gt;", '"': "&quot;" }[c]; }); }
async function refresh() {
  try {
    const status = await (await fetch("/api/status")).json();
    const mon = status.monitoring || {};
    document.getElementById("monitoring").textContent = mon.monitoring ? "ON" : "OFF";
    document.getElementById("monitoring").className = "value " + (mon.monitoring ? "ok" : "bad");
    document.getElementById("campaigns").textContent = mon.activeCampaigns || 0;
    document.getElementById("warmApi").textContent = status.warmApi || "-";
    document.getElementById("warmApi").className = "value " + (status.warmApi === "healthy" ? "ok" : "bad");

    const analytics = await (await fetch("/api/analytics")).json();
    document.getElementById("totalPlays").textContent = analytics.totalPlays || 0;

    const rows = (mon.campaigns || []).map(function (c) {
      return "<tr><td>" + esc(c.campaignId) + "</td><td>" + esc(c.artistName) + "</td><td>" +
        (c.monitoring ? '<span class="ok">active</span>' : '<span class="bad">stopped</span>') +
        "</td><td>" + esc(c.lastCheck || "-") + "</td><td>" + (c.totalPlays || 0) + "</td><td>" + (c.newPlays || 0) + "</td></tr>";
    });
    document.getElementById("campaignRows").innerHTML = rows.join("");

    const plays = await (await fetch("/api/plays")).json();
    const playRows = (plays || []).map(function (p) {
      return "<tr><td>" + esc(p.timestamp) + "</td><td>" + esc(p.artistName) + "</td><td>" + esc(p.station) + "</td><td>" + esc(p.time) + " " + esc(p.date) + "</td></tr>";
    });
    document.getElementById("playRows").innerHTML = playRows.join("");
  } catch (e) {
    console.error("refresh failed", e);
  }
}
refresh();
setInterval(refresh, 30000);
</script>
</body>
</html>
`
