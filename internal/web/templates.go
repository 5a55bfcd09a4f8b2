package web

// pageTemplate renders both the blank form and the form-plus-result page.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>CO2 Emissions Predictor</title>
<style>
body { font-family: Arial, sans-serif; background: #f8f9fa; margin: 0; padding: 2rem; color: #333; }
.main-header { font-size: 2.2rem; color: #1f77b4; text-align: center; margin-bottom: 2rem; }
.columns { display: flex; gap: 2rem; max-width: 1100px; margin: 0 auto; flex-wrap: wrap; }
.panel { flex: 1; min-width: 380px; background: #fff; padding: 1.5rem; border-radius: 10px; box-shadow: 0 0 10px rgba(0,0,0,0.08); }
label { display: block; margin: 0.8rem 0 0.2rem; font-weight: bold; }
input, select { width: 100%; padding: 8px; border: 1px solid #ccc; border-radius: 5px; box-sizing: border-box; }
button { background: #1f77b4; color: white; border: none; padding: 12px; border-radius: 5px; cursor: pointer; width: 100%; margin-top: 1.2rem; font-size: 1rem; }
button:hover { background: #145a8a; }
.prediction-box { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 1.5rem; border-radius: 12px; text-align: center; margin: 1rem 0; }
.prediction-value { font-size: 3rem; font-weight: bold; color: white; }
.prediction-label { color: white; font-size: 1.1rem; }
.metric-card { background-color: #f8f9fa; padding: 1rem; border-radius: 8px; border-left: 4px solid #667eea; margin: 0.5rem 0; }
.bar-row { margin: 0.4rem 0; }
.bar-label { font-size: 0.85rem; margin-bottom: 2px; }
.bar { height: 22px; border-radius: 4px; background: #1f77b4; }
.bar.average { background: #aaa; }
.success-box { background-color: #d4edda; border-left: 4px solid #28a745; padding: 1rem; border-radius: 5px; margin: 1rem 0; }
.warning-box { background-color: #fff3cd; border-left: 4px solid #ffc107; padding: 1rem; border-radius: 5px; margin: 1rem 0; }
.error-box { background-color: #f8d7da; border-left: 4px solid #dc3545; padding: 1rem; border-radius: 5px; margin: 1rem 0; }
table { width: 100%; border-collapse: collapse; font-size: 0.85rem; }
th, td { text-align: left; padding: 4px 6px; border-bottom: 1px solid #eee; }
</style>
</head>
<body>
<h1 class="main-header">CO2 Emissions Predictor</h1>
<div class="columns">
<div class="panel">
<h2>Vehicle Specifications</h2>
{{if .Error}}<div class="error-box">{{.Error}}</div>{{end}}
<form method="POST" action="/predict">
<label for="vehicle_class">Vehicle Class</label>
<select id="vehicle_class" name="vehicle_class">
{{range .Classes}}<option value="{{.}}"{{if eq . $.Form.VehicleClass}} selected{{end}}>{{.}}</option>
{{end}}</select>
<label for="fuel_type">Fuel Type</label>
<select id="fuel_type" name="fuel_type">
{{range .Fuels}}<option value="{{.Code}}"{{if eq .Code $.Form.FuelType}} selected{{end}}>{{.Code}} - {{.Label}}</option>
{{end}}</select>
<label for="engine_size">Engine Size (L): <span id="engine_size_out">{{printf "%.1f" .Form.EngineSizeL}}</span></label>
<input type="range" id="engine_size" name="engine_size" min="0.5" max="8.0" step="0.1" value="{{printf "%.1f" .Form.EngineSizeL}}"
 oninput="document.getElementById('engine_size_out').textContent=this.value">
<label for="cylinders">Number of Cylinders</label>
<select id="cylinders" name="cylinders">
{{range .Cylinders}}<option value="{{.}}"{{if eq . $.Form.Cylinders}} selected{{end}}>{{.}}</option>
{{end}}</select>
<h3>Fuel Consumption</h3>
<label for="fuel_city">City (L/100 km)</label>
<input type="number" id="fuel_city" name="fuel_city" min="1.0" max="30.0" step="0.1" value="{{printf "%.1f" .Form.ConsumptionCity}}">
<label for="fuel_hwy">Highway (L/100 km)</label>
<input type="number" id="fuel_hwy" name="fuel_hwy" min="1.0" max="25.0" step="0.1" value="{{printf "%.1f" .Form.ConsumptionHwy}}">
<label for="fuel_comb">Combined (L/100 km)</label>
<input type="number" id="fuel_comb" name="fuel_comb" min="1.0" max="30.0" step="0.1" value="{{printf "%.1f" .Form.ConsumptionComb}}">
<label for="fuel_mpg">Combined (mpg)</label>
<input type="number" id="fuel_mpg" name="fuel_mpg" min="5.0" max="100.0" step="0.5" value="{{printf "%.1f" .Form.ConsumptionMPG}}">
<button type="submit">Predict CO2 Emissions</button>
</form>
</div>
<div class="panel">
<h2>Prediction Results</h2>
{{if .Result}}
<div class="prediction-box">
<div class="prediction-label">Predicted CO2 Emissions</div>
<div class="prediction-value">{{printf "%.2f" .Result.EmissionsGPerKM}} g/km</div>
</div>
<h3>Comparison</h3>
<div class="metric-card">
Your vehicle: <strong>{{printf "%.2f" .Result.EmissionsGPerKM}} g/km</strong> ·
Average vehicle: <strong>{{printf "%.0f" .Result.Impact.BaselineGPerKM}} g/km</strong> ·
Difference: <strong>{{printf "%.1f" .Result.Impact.DifferenceGPerKM}} g/km ({{printf "%.1f" .Result.Impact.PercentVsAverage}}%)</strong>
</div>
<div class="bar-row">
<div class="bar-label">Your Vehicle ({{printf "%.2f" .Result.EmissionsGPerKM}} g/km)</div>
<div class="bar" style="width: {{printf "%.1f" .Result.VehicleBarPct}}%"></div>
</div>
<div class="bar-row">
<div class="bar-label">Average Vehicle ({{printf "%.0f" .Result.Impact.BaselineGPerKM}} g/km)</div>
<div class="bar average" style="width: {{printf "%.1f" .Result.AverageBarPct}}%"></div>
</div>
<h3>Environmental Impact</h3>
<div class="metric-card">
<h4>Yearly CO2</h4>
<h2>{{printf "%.1f" .Result.Impact.YearlyKG}} kg</h2>
<p>({{printf "%.2f" .Result.Impact.YearlyTons}} tons)</p>
</div>
<div class="metric-card">
<h4>Trees to Offset</h4>
<h2>{{printf "%.0f" .Result.Impact.TreesToOffset}} trees</h2>
<p>per year</p>
</div>
<div class="metric-card">
Monthly CO2: <strong>{{printf "%.1f" .Result.Impact.MonthlyKG}} kg</strong> ·
Daily CO2: <strong>{{printf "%.2f" .Result.Impact.DailyKG}} kg</strong>
</div>
{{if .Result.Impact.AboveAverage}}
<div class="warning-box">
<h4>Higher than average emissions</h4>
<p><strong>Your vehicle emits {{printf "%.1f" .Result.AbsPercent}}% more CO2 than average.</strong></p>
<p>Consider:</p>
<ul>
<li>Carpooling or public transport</li>
<li>Regular vehicle maintenance</li>
<li>Eco-friendly driving habits</li>
<li>Upgrading to a more efficient vehicle</li>
</ul>
</div>
{{else}}
<div class="success-box">
<h4>Below average emissions!</h4>
<p><strong>Your vehicle emits {{printf "%.1f" .Result.AbsPercent}}% less CO2 than average.</strong></p>
<p>Your vehicle is more environmentally friendly than average.</p>
</div>
{{end}}
{{else}}
<p>Enter vehicle specifications and click Predict to see results.</p>
<h3>Example Input</h3>
<table>
<tr><th>Specification</th><th>Value</th></tr>
<tr><td>Vehicle Class</td><td>COMPACT</td></tr>
<tr><td>Fuel Type</td><td>X (Regular)</td></tr>
<tr><td>Engine Size</td><td>2.0 L</td></tr>
<tr><td>Cylinders</td><td>4</td></tr>
<tr><td>City Consumption</td><td>9.9 L/100km</td></tr>
<tr><td>Highway Consumption</td><td>6.7 L/100km</td></tr>
</table>
{{end}}
{{if .History}}
<h3>Recent Predictions</h3>
<table id="history">
<tr><th>Time</th><th>Class</th><th>Fuel</th><th>Engine</th><th>g/km</th></tr>
{{range .History}}<tr><td>{{.Ts.Format "15:04:05"}}</td><td>{{.Input.VehicleClass}}</td><td>{{.Input.FuelType}}</td><td>{{printf "%.1f" .Input.EngineSizeL}} L</td><td>{{printf "%.2f" .EmissionsGPerKM}}</td></tr>
{{end}}</table>
<script>
(function() {
  var table = document.getElementById('history');
  var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
  var ws = new WebSocket(proto + location.host + '/ws');
  ws.onmessage = function(ev) {
    var rec = JSON.parse(ev.data);
    var row = table.insertRow(1);
    row.insertCell(0).textContent = new Date(rec.ts).toLocaleTimeString();
    row.insertCell(1).textContent = rec.input.vehicle_class;
    row.insertCell(2).textContent = rec.input.fuel_type;
    row.insertCell(3).textContent = rec.input.engine_size_l.toFixed(1) + ' L';
    row.insertCell(4).textContent = rec.emissions_g_per_km.toFixed(2);
  };
})();
</script>
{{end}}
</div>
</div>
</body>
</html>
`
